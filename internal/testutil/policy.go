package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WritePolicyFile writes content as <dir>/<name>.yaml and returns its path.
func WritePolicyFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// NewPolicyDir creates a temp policy directory seeded with a permissive
// default.yaml and returns the directory path.
func NewPolicyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WritePolicyFile(t, dir, "default", `
require_name: true
name_min_len: 2
name_max_len: 100
`)
	return dir
}

// StrictPolicy is a policy document that governs every recognized field.
// Useful for tests exercising the full check pipeline.
const StrictPolicy = `
require_name: true
name_min_len: 2
name_max_len: 80
require_dob: true
min_age: 18
max_age: 120
require_id_number: true
id_min_len: 5
id_max_len: 20
require_address: true
address_min_len: 10
address_min_words: 3
require_email: true
email_allow_regex: "[^@\\s]+@[^@\\s]+\\.[^@\\s]+"
require_has_face_photo: true
`
