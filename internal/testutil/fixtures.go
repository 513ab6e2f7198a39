// Package testutil holds fixtures shared by tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/filterql/internal/model"
)

// UsersModelYAML defines a single users model. password is hidden,
// logins sorts DESC by default.
const UsersModelYAML = `models:
  users:
    schema: badwolf_master
    fields:
      user_id: {type: CHAR(36), primary_key: true, generate: uuid}
      username: {type: VARCHAR(255), sortable: true}
      email: {type: VARCHAR(127), sortable: true}
      password: {type: VARCHAR(127), hidden: true}
      status: {type: "ENUM('enabled','disabled')"}
      logins: {type: INT(10), sortable: desc}
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// UsersModelFile writes UsersModelYAML into dir and returns its path.
func UsersModelFile(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, dir, "users.yaml", UsersModelYAML)
}

// UsersModel parses UsersModelYAML.
func UsersModel(t testing.TB) *model.Model {
	t.Helper()
	set, err := model.ParseBytes([]byte(UsersModelYAML), model.FormatYAML, "users.yaml")
	if err != nil {
		t.Fatalf("parse users model: %v", err)
	}
	m, err := set.Get("users")
	if err != nil {
		t.Fatalf("get users model: %v", err)
	}
	return m
}

// UsersRecords returns four users: three enabled and one disabled.
func UsersRecords() []map[string]any {
	return []map[string]any{
		{"username": "badwolf", "email": "wolf@example.com", "password": "secret", "status": "enabled", "logins": 12},
		{"username": "rose", "email": "rose@example.com", "password": "hunter2", "status": "enabled", "logins": 40},
		{"username": "dalek", "email": "exterminate@skaro.net", "password": "x", "status": "disabled", "logins": 3},
		{"username": "badger", "email": "badger@example.com", "password": "y", "status": "enabled", "logins": 0},
	}
}

// UsersRecordsJSON is UsersRecords as a JSON array.
const UsersRecordsJSON = `[
  {"username": "badwolf", "email": "wolf@example.com", "password": "secret", "status": "enabled", "logins": 12},
  {"username": "rose", "email": "rose@example.com", "password": "hunter2", "status": "enabled", "logins": 40},
  {"username": "dalek", "email": "exterminate@skaro.net", "password": "x", "status": "disabled", "logins": 3},
  {"username": "badger", "email": "badger@example.com", "password": "y", "status": "enabled", "logins": 0}
]`
