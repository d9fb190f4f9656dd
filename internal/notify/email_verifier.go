package notify

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
)

// mxLookupTimeout bounds the DNS round trip so a slow resolver cannot hang a
// signup indefinitely.
const mxLookupTimeout = 5 * time.Second

// EmailVerifier checks that an address is syntactically valid and that its
// domain is reachable before an account is created.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) error
}

// DNSEmailVerifier validates syntax with the shared validator rules and
// confirms domain reachability with an MX lookup.
type DNSEmailVerifier struct {
	resolver *net.Resolver
	validate *validator.Validate
}

// NewDNSEmailVerifier builds a verifier backed by the default resolver.
func NewDNSEmailVerifier() *DNSEmailVerifier {
	return &DNSEmailVerifier{
		resolver: net.DefaultResolver,
		validate: validator.New(),
	}
}

// Verify implements EmailVerifier.
func (v *DNSEmailVerifier) Verify(ctx context.Context, email string) error {
	if err := v.validate.Var(email, "required,email"); err != nil {
		return apperrors.ErrEmailInvalid
	}

	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return apperrors.ErrEmailInvalid
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, mxLookupTimeout)
	defer cancel()

	records, err := v.resolver.LookupMX(ctx, domain)
	if err != nil || len(records) == 0 {
		return apperrors.ErrEmailUnreachable
	}
	return nil
}
