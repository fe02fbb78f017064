package ports

// QRGenerator derives the scannable artifact for a delivery token. The
// encoded URL contains the opaque token and nothing else sensitive.
//
// Generation is a non-blocking follow-up of credential issuance: a failure is
// logged and the primary operation still succeeds; the artifact can be
// regenerated later from the stored token.
type QRGenerator interface {
	// GenerateForToken renders and stores the artifact for a token value.
	GenerateForToken(token string) error

	// RemoveForToken discards the artifact of an invalidated token.
	RemoveForToken(token string) error
}
