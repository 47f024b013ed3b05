package client

import "github.com/edgeo-scada/uacore/pkg/ua"

// SecurityPolicyURI identifies a SecurityPolicy by its standard URI. Only
// #None is meaningful to this core (see DESIGN.md for why the teacher's
// RSA sign/encrypt machinery for the signed policies was not carried
// over); the identifiers for the other standard policies are kept so an
// endpoint's advertised SecurityPolicyURI can still be recognized and
// rejected with a clear error rather than silently misinterpreted.
type SecurityPolicyURI string

const (
	SecurityPolicyNone                SecurityPolicyURI = "http://opcfoundation.org/UA/SecurityPolicy#None"
	SecurityPolicyBasic128Rsa15       SecurityPolicyURI = "http://opcfoundation.org/UA/SecurityPolicy#Basic128Rsa15"
	SecurityPolicyBasic256            SecurityPolicyURI = "http://opcfoundation.org/UA/SecurityPolicy#Basic256"
	SecurityPolicyBasic256Sha256      SecurityPolicyURI = "http://opcfoundation.org/UA/SecurityPolicy#Basic256Sha256"
	SecurityPolicyAes128Sha256RsaOaep SecurityPolicyURI = "http://opcfoundation.org/UA/SecurityPolicy#Aes128Sha256RsaOaep"
	SecurityPolicyAes256Sha256RsaPss  SecurityPolicyURI = "http://opcfoundation.org/UA/SecurityPolicy#Aes256Sha256RsaPss"
)

// ErrUnsupportedSecurityPolicy is returned when an endpoint requires
// anything other than SecurityPolicy#None; secured channels are outside
// this core's scope.
var ErrUnsupportedSecurityPolicy = ua.StatusBadSecurityPolicyRejected

// requireNoneSecurity validates that ep can be reached with
// SecurityPolicy#None / MessageSecurityMode None, the only combination
// this core establishes a channel with.
func requireNoneSecurity(ep ua.EndpointDescription) error {
	if ep.SecurityMode != ua.MessageSecurityModeNone && ep.SecurityMode != ua.MessageSecurityModeInvalid {
		return ErrUnsupportedSecurityPolicy
	}
	if ep.SecurityPolicyURI != "" && SecurityPolicyURI(ep.SecurityPolicyURI) != SecurityPolicyNone {
		return ErrUnsupportedSecurityPolicy
	}
	return nil
}

// anonymousPolicyID returns the UserTokenPolicy id an endpoint advertises
// for anonymous identity tokens, falling back to the literal "anonymous"
// used by servers that don't bother assigning one.
func anonymousPolicyID(ep ua.EndpointDescription) string {
	for _, p := range ep.UserIdentityTokens {
		if p.TokenType == ua.UserTokenTypeAnonymous {
			return p.PolicyID
		}
	}
	return "anonymous"
}

// userNamePolicyID returns the UserTokenPolicy id an endpoint advertises
// for username/password identity tokens, falling back to "username".
func userNamePolicyID(ep ua.EndpointDescription) string {
	for _, p := range ep.UserIdentityTokens {
		if p.TokenType == ua.UserTokenTypeUserName {
			return p.PolicyID
		}
	}
	return "username"
}
