package misc

import "testing"

func TestGetAppName(t *testing.T) {
	if GetAppName() != "emc" {
		t.Errorf("GetAppName() = %q, want emc", GetAppName())
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
}

func TestGetGitHash(t *testing.T) {
	first := GetGitHash()
	if first == "" {
		t.Error("GetGitHash() returned empty string")
	}
	if again := GetGitHash(); again != first {
		t.Errorf("GetGitHash() not stable: %q then %q", first, again)
	}
}
