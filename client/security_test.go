package client

import (
	"testing"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

func TestRequireNoneSecurityAcceptsNoneMode(t *testing.T) {
	ep := ua.EndpointDescription{
		SecurityMode:      ua.MessageSecurityModeNone,
		SecurityPolicyURI: string(SecurityPolicyNone),
	}
	if err := requireNoneSecurity(ep); err != nil {
		t.Fatalf("expected no error for SecurityPolicy#None, got %v", err)
	}
}

func TestRequireNoneSecurityAcceptsUnspecifiedEndpoint(t *testing.T) {
	// A minimal/incomplete endpoint (empty mode+URI) must not be rejected;
	// selectEndpoint's own synthetic fallback endpoint relies on this.
	if err := requireNoneSecurity(ua.EndpointDescription{}); err != nil {
		t.Fatalf("expected zero-value endpoint to be accepted, got %v", err)
	}
}

func TestRequireNoneSecurityRejectsSignAndEncrypt(t *testing.T) {
	ep := ua.EndpointDescription{
		SecurityMode:      ua.MessageSecurityModeSignAndEncrypt,
		SecurityPolicyURI: string(SecurityPolicyBasic256Sha256),
	}
	if err := requireNoneSecurity(ep); err != ErrUnsupportedSecurityPolicy {
		t.Fatalf("expected ErrUnsupportedSecurityPolicy, got %v", err)
	}
}

func TestRequireNoneSecurityRejectsSignedPolicyEvenWithNoneMode(t *testing.T) {
	ep := ua.EndpointDescription{
		SecurityMode:      ua.MessageSecurityModeNone,
		SecurityPolicyURI: string(SecurityPolicyBasic128Rsa15),
	}
	if err := requireNoneSecurity(ep); err != ErrUnsupportedSecurityPolicy {
		t.Fatalf("expected ErrUnsupportedSecurityPolicy for a mismatched policy URI, got %v", err)
	}
}

func TestAnonymousAndUserNamePolicyIDFallbacks(t *testing.T) {
	ep := ua.EndpointDescription{}
	if got := anonymousPolicyID(ep); got != "anonymous" {
		t.Fatalf("expected fallback %q, got %q", "anonymous", got)
	}
	if got := userNamePolicyID(ep); got != "username" {
		t.Fatalf("expected fallback %q, got %q", "username", got)
	}
}

func TestAnonymousAndUserNamePolicyIDFromAdvertisedTokens(t *testing.T) {
	ep := ua.EndpointDescription{
		UserIdentityTokens: []ua.UserTokenPolicy{
			{PolicyID: "anon-1", TokenType: ua.UserTokenTypeAnonymous},
			{PolicyID: "user-1", TokenType: ua.UserTokenTypeUserName},
		},
	}
	if got := anonymousPolicyID(ep); got != "anon-1" {
		t.Fatalf("expected %q, got %q", "anon-1", got)
	}
	if got := userNamePolicyID(ep); got != "user-1" {
		t.Fatalf("expected %q, got %q", "user-1", got)
	}
}
