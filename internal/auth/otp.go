package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"farmer_registry/internal/domain"
)

var otpSpace = big.NewInt(1_000_000)

// CodeGenerator issues uniformly random six digit codes valid for domain.OtpTTL
type CodeGenerator struct {
	clock domain.Clock
}

// NewCodeGenerator creates a generator reading expiry instants from clock
func NewCodeGenerator(clock domain.Clock) *CodeGenerator {
	return &CodeGenerator{clock: clock}
}

// Generate returns a zero-padded code and its expiry
func (g *CodeGenerator) Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), g.clock.Now().Add(domain.OtpTTL), nil
}

var _ OtpGenerator = (*CodeGenerator)(nil)
