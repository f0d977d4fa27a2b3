package auth

import (
	"strings"
	"testing"

	"github.com/ubongpr7/akwa-inventory/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "akwa-inventory-test",
		ExpirationMinutes: 5,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	raw, err := MintAccessToken(cfg, AccessTokenPayload{UserID: "user-1", ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.ProfileID != "profile-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be set")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	raw, err := MintAccessToken(cfg, AccessTokenPayload{UserID: "user-1", ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, raw); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	cfg := testJWTConfig()
	raw, err := MintAccessToken(cfg, AccessTokenPayload{UserID: "user-1", ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	tampered := strings.TrimSuffix(raw, string(raw[len(raw)-1])) + "x"
	if _, err := ParseAccessToken(cfg, tampered); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestMintRequiresIdentity(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintAccessToken(cfg, AccessTokenPayload{ProfileID: "p"}); err == nil {
		t.Fatal("expected error without user id")
	}
	if _, err := MintAccessToken(cfg, AccessTokenPayload{UserID: "u"}); err == nil {
		t.Fatal("expected error without profile id")
	}
}
