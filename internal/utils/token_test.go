package utils

import (
	"strings"
	"testing"
)

func TestGenerateWorkspaceCode(t *testing.T) {
	code, err := GenerateWorkspaceCode()
	if err != nil {
		t.Fatalf("GenerateWorkspaceCode() error = %v", err)
	}

	if len(code) != 6 {
		t.Errorf("code length = %d, expected 6", len(code))
	}

	for _, r := range code {
		if !strings.ContainsRune(workspaceCodeAlphabet, r) {
			t.Errorf("code contains %q, outside the allowed alphabet", r)
		}
	}
}

func TestGenerateWorkspaceCode_NoAmbiguousChars(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateWorkspaceCode()
		if err != nil {
			t.Fatalf("GenerateWorkspaceCode() error = %v", err)
		}
		if strings.ContainsAny(code, "0O1I") {
			t.Errorf("code %q contains an ambiguous character", code)
		}
	}
}

func TestGenerateWorkspaceCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, _ := GenerateWorkspaceCode()
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("repeated calls should produce varying codes")
	}
}

func TestGenerateInvitationToken(t *testing.T) {
	token, err := GenerateInvitationToken()
	if err != nil {
		t.Fatalf("GenerateInvitationToken() error = %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, expected 64 hex chars", len(token))
	}

	for _, r := range token {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("token contains non-hex character %q", r)
		}
	}
}

func TestGenerateInvitationToken_Unique(t *testing.T) {
	a, _ := GenerateInvitationToken()
	b, _ := GenerateInvitationToken()
	if a == b {
		t.Error("two tokens should never collide")
	}
}
