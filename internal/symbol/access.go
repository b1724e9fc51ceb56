package symbol

// Access is a symbol's visibility/mutability tag.
type Access string

const (
	AccessPrivate        Access = "private"
	AccessPrivateMutable Access = "private_mutable"
	AccessPublic         Access = "public"
	AccessPublicMutable  Access = "public_mutable"
	AccessGlobal         Access = "global"
)
