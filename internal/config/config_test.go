package config

import (
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid cli backend",
			config: Config{
				Store: StoreConfig{
					Backend: "cli",
					Command: "vault-cli",
				},
			},
			wantErr: false,
		},
		{
			name: "valid gcp backend",
			config: Config{
				Store: StoreConfig{
					Backend: "gcp",
					Project: "my-project",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid backend",
			config: Config{
				Store: StoreConfig{
					Backend: "s3",
				},
			},
			wantErr: true,
			errMsg:  "invalid store backend",
		},
		{
			name: "cli backend without command",
			config: Config{
				Store: StoreConfig{
					Backend: "cli",
				},
			},
			wantErr: true,
			errMsg:  "store command is required",
		},
		{
			name: "negative backup keep count",
			config: Config{
				Store: StoreConfig{
					Backend: "gcp",
				},
				Backup: BackupConfig{
					Keep: -1,
				},
			},
			wantErr: true,
			errMsg:  "backup keep count",
		},
		{
			name: "audit enabled without project",
			config: Config{
				Store: StoreConfig{
					Backend: "cli",
					Command: "vault-cli",
				},
				Audit: AuditConfig{
					Enabled: true,
				},
			},
			wantErr: true,
			errMsg:  "audit project is required",
		},
		{
			name: "audit enabled with project",
			config: Config{
				Store: StoreConfig{
					Backend: "cli",
					Command: "vault-cli",
				},
				Audit: AuditConfig{
					Enabled: true,
					Project: "my-project",
				},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.errMsg)
					return
				}
				if tt.errMsg != "" && !containsString(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want error containing %q", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected Config
	}{
		{
			name:   "empty config gets all defaults",
			config: Config{},
			expected: Config{
				Files:   FilesConfig{Globs: []string{".env", ".env.*"}},
				Store:   StoreConfig{Backend: "cli"},
				Backup:  BackupConfig{Dir: ".envsync/backups", Keep: 10},
				Logging: LoggingConfig{Level: "info", Format: "text"},
			},
		},
		{
			name: "does not override existing values",
			config: Config{
				Files:   FilesConfig{Globs: []string{"deploy/.env"}},
				Store:   StoreConfig{Backend: "gcp", Project: "my-project"},
				Backup:  BackupConfig{Dir: "/tmp/backups", Keep: 3},
				Logging: LoggingConfig{Level: "debug", Format: "json"},
			},
			expected: Config{
				Files:   FilesConfig{Globs: []string{"deploy/.env"}},
				Store:   StoreConfig{Backend: "gcp", Project: "my-project"},
				Backup:  BackupConfig{Dir: "/tmp/backups", Keep: 3},
				Logging: LoggingConfig{Level: "debug", Format: "json"},
			},
		},
		{
			name: "audit project inherits store project",
			config: Config{
				Store: StoreConfig{Backend: "gcp", Project: "my-project"},
				Audit: AuditConfig{Enabled: true},
			},
			expected: Config{
				Audit: AuditConfig{Enabled: true, Project: "my-project"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applyDefaults(&tt.config)

			if len(tt.expected.Files.Globs) > 0 {
				if len(tt.config.Files.Globs) != len(tt.expected.Files.Globs) ||
					tt.config.Files.Globs[0] != tt.expected.Files.Globs[0] {
					t.Errorf("Files.Globs = %v, want %v", tt.config.Files.Globs, tt.expected.Files.Globs)
				}
			}
			if tt.expected.Store.Backend != "" && tt.config.Store.Backend != tt.expected.Store.Backend {
				t.Errorf("Store.Backend = %q, want %q", tt.config.Store.Backend, tt.expected.Store.Backend)
			}
			if tt.expected.Backup.Dir != "" && tt.config.Backup.Dir != tt.expected.Backup.Dir {
				t.Errorf("Backup.Dir = %q, want %q", tt.config.Backup.Dir, tt.expected.Backup.Dir)
			}
			if tt.expected.Backup.Keep != 0 && tt.config.Backup.Keep != tt.expected.Backup.Keep {
				t.Errorf("Backup.Keep = %d, want %d", tt.config.Backup.Keep, tt.expected.Backup.Keep)
			}
			if tt.expected.Audit.Project != "" && tt.config.Audit.Project != tt.expected.Audit.Project {
				t.Errorf("Audit.Project = %q, want %q", tt.config.Audit.Project, tt.expected.Audit.Project)
			}
			if tt.expected.Logging.Level != "" && tt.config.Logging.Level != tt.expected.Logging.Level {
				t.Errorf("Logging.Level = %q, want %q", tt.config.Logging.Level, tt.expected.Logging.Level)
			}
		})
	}
}

func containsString(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
