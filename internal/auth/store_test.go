package auth

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestSaveLoadDelete(t *testing.T) {
	keyring.MockInit()

	host := "nrt.cmems-du.eu"
	want := Credentials{Username: "jdoe", Password: "hunter2"}
	if err := Save(host, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(host)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := Delete(host); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := Load(host); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}
}

func TestLoadMissingHost(t *testing.T) {
	keyring.MockInit()

	if _, err := Load("never-stored.example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingHostIsIdempotent(t *testing.T) {
	keyring.MockInit()

	if err := Delete("never-stored.example.com"); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestSaveRejectsEmptyUsername(t *testing.T) {
	keyring.MockInit()

	if err := Save("host", Credentials{Password: "x"}); err == nil {
		t.Error("Save() with empty username should fail")
	}
}

func TestCredentialsAreScopedByHost(t *testing.T) {
	keyring.MockInit()

	if err := Save("nrt.cmems-du.eu", Credentials{Username: "a", Password: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := Save("my.cmems-du.eu", Credentials{Username: "b", Password: "2"}); err != nil {
		t.Fatal(err)
	}

	got, err := Load("my.cmems-du.eu")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Username != "b" {
		t.Errorf("Load() username = %q, want %q", got.Username, "b")
	}
}
