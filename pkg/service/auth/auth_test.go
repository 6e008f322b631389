package auth_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/service/auth"
)

func TestLoginAndVerify(t *testing.T) {
	svc, err := auth.New("test-secret", "test-key")
	gt.NoError(t, err).Required()

	signed, err := svc.Login("admin-1", "test-key")
	gt.NoError(t, err).Required()
	gt.Value(t, signed).NotEqual("")

	adminID, err := svc.Verify(signed)
	gt.NoError(t, err).Required()
	gt.Value(t, adminID).Equal("admin-1")
}

func TestLogin_WrongKey(t *testing.T) {
	svc, err := auth.New("test-secret", "test-key")
	gt.NoError(t, err).Required()

	_, err = svc.Login("admin-1", "wrong-key")
	gt.Value(t, err).NotNil()
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := auth.New("secret-a", "test-key")
	gt.NoError(t, err).Required()
	verifier, err := auth.New("secret-b", "test-key")
	gt.NoError(t, err).Required()

	signed, err := issuer.Login("admin-1", "test-key")
	gt.NoError(t, err).Required()

	_, err = verifier.Verify(signed)
	gt.Value(t, err).NotNil()
}

func TestVerify_Expired(t *testing.T) {
	svc, err := auth.New("test-secret", "test-key", auth.WithTokenTTL(-time.Minute))
	gt.NoError(t, err).Required()

	signed, err := svc.Login("admin-1", "test-key")
	gt.NoError(t, err).Required()

	_, err = svc.Verify(signed)
	gt.Value(t, err).NotNil()
}

func TestVerify_Garbage(t *testing.T) {
	svc, err := auth.New("test-secret", "test-key")
	gt.NoError(t, err).Required()

	_, err = svc.Verify("not-a-token")
	gt.Value(t, err).NotNil()
}

func TestNew_MissingConfig(t *testing.T) {
	_, err := auth.New("", "key")
	gt.Value(t, err).NotNil()

	_, err = auth.New("secret", "")
	gt.Value(t, err).NotNil()
}
