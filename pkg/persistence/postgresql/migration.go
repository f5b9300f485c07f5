package postgresql

// migrations returns the schema migrations keyed by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS forms (
				id TEXT PRIMARY KEY,
				tenant_slug TEXT NOT NULL DEFAULT '',
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'draft',
				fields JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				published_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_forms_tenant_slug ON forms (tenant_slug);
			CREATE INDEX IF NOT EXISTS idx_forms_status ON forms (status);
		`,
		2: `
			CREATE TABLE IF NOT EXISTS submissions (
				id TEXT PRIMARY KEY,
				form_id TEXT NOT NULL,
				tenant_slug TEXT NOT NULL DEFAULT '',
				answers JSONB NOT NULL DEFAULT '{}',
				signature_key TEXT NOT NULL DEFAULT '',
				document_url TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'received',
				submitted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				processed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_submissions_form_id ON submissions (form_id);
		`,
	}
}
