package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	signed, err := JwtGenerate("user-002", "staff", "Aiman")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := JwtValidate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		t.Fatalf("invalid token or claims type")
	}
	if claims.ID != "user-002" || claims.Role != "staff" || claims.Name != "Aiman" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestJwtValidate_RejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to fail validation")
	}
}

func TestJwtValidate_RejectsTampering(t *testing.T) {
	signed, err := JwtGenerate("user-001", "admin", "Admin User")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tampered := signed[:len(signed)-2] + "xx"
	token, err := JwtValidate(tampered)
	if err == nil && token.Valid {
		t.Fatalf("tampered token must not validate")
	}
}
