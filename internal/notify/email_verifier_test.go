package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
)

func TestDNSEmailVerifier_RejectsBadSyntax(t *testing.T) {
	v := NewDNSEmailVerifier()

	// Syntax failures are caught before any DNS round trip.
	for _, email := range []string{"", "not-an-email", "missing-domain@", "@missing-local"} {
		err := v.Verify(context.Background(), email)
		assert.ErrorIs(t, err, apperrors.ErrEmailInvalid, "email %q", email)
	}
}
