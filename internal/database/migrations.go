package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255),
		avatar_url VARCHAR(500),
		provider VARCHAR(50),
		provider_id VARCHAR(255),
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_folders (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		parent_id UUID REFERENCES project_folders(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		color VARCHAR(20),
		is_system BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		folder_id UUID REFERENCES project_folders(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		client VARCHAR(255),
		typology VARCHAR(100),
		internal_ref VARCHAR(100),
		address TEXT,
		delivery_date DATE,
		status VARCHAR(50) NOT NULL DEFAULT 'draft',
		total_area NUMERIC(12,2),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS libraries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		is_global BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		library_id UUID NOT NULL REFERENCES libraries(id) ON DELETE CASCADE,
		designation VARCHAR(500) NOT NULL,
		lot VARCHAR(255) NOT NULL,
		sub_category VARCHAR(255),
		unit VARCHAR(50) NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(50),
		is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS project_shares (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		shared_with_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(20) NOT NULL DEFAULT 'viewer',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(project_id, shared_with_id)
	)`,

	`CREATE TABLE IF NOT EXISTS library_shares (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		library_id UUID NOT NULL REFERENCES libraries(id) ON DELETE CASCADE,
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		shared_with_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(20) NOT NULL DEFAULT 'viewer',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(library_id, shared_with_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_libraries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		library_id UUID NOT NULL REFERENCES libraries(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(project_id, library_id)
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		uploaded_by UUID REFERENCES users(id) ON DELETE SET NULL,
		doc_type VARCHAR(20) NOT NULL,
		filename VARCHAR(500) NOT NULL,
		stored_path VARCHAR(1000) NOT NULL,
		size_bytes BIGINT NOT NULL DEFAULT 0,
		format VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_project_folders_owner_id ON project_folders(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_folders_parent_id ON project_folders(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner_id ON projects(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_folder_id ON projects(folder_id)`,
	`CREATE INDEX IF NOT EXISTS idx_libraries_owner_id ON libraries(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_library_id ON articles(library_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_shares_project_id ON project_shares(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_shares_shared_with_id ON project_shares(shared_with_id)`,
	`CREATE INDEX IF NOT EXISTS idx_library_shares_library_id ON library_shares(library_id)`,
	`CREATE INDEX IF NOT EXISTS idx_library_shares_shared_with_id ON library_shares(shared_with_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_libraries_project_id ON project_libraries(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_libraries_library_id ON project_libraries(library_id)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_project_id ON documents(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
