package repository

// Schema definitions for the vssbridge database.
// Compatible with both SQLite and PostgreSQL.

const schemaProfiles = `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    tax_id TEXT NOT NULL,
    enterprise_source TEXT NOT NULL,
    regulatory_source TEXT NOT NULL,
    data_quality REAL NOT NULL,
    risk_level TEXT NOT NULL,
    result TEXT NOT NULL,
    generated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_tax_id ON profiles(tax_id);
CREATE INDEX IF NOT EXISTS idx_profiles_generated ON profiles(generated_at);
CREATE INDEX IF NOT EXISTS idx_profiles_risk ON profiles(risk_level);
`

const schemaScreenRules = `
CREATE TABLE IF NOT EXISTS screen_rules (
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    version TEXT NOT NULL,
    expression TEXT NOT NULL,
    bands TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 1.0,
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, version)
);

CREATE INDEX IF NOT EXISTS idx_screen_rules_enabled ON screen_rules(enabled);
CREATE INDEX IF NOT EXISTS idx_screen_rules_name ON screen_rules(name);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaProfiles,
		schemaScreenRules,
	}
}
