package errx

// Type categorizes an error for transport mapping and logging.
type Type string

const (
	// TypeInternal covers store and signing faults. Details never reach the caller.
	TypeInternal Type = "INTERNAL"

	// TypeValidation covers malformed or missing request fields.
	TypeValidation Type = "VALIDATION"

	// TypeAuthentication covers missing, invalid or expired credentials.
	TypeAuthentication Type = "AUTHENTICATION"

	// TypeAuthorization covers authenticated callers lacking a permission.
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound covers absent entities, including entities hidden from
	// the caller on ownership grounds.
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict covers uniqueness violations.
	TypeConflict Type = "CONFLICT"

	// TypeExternal covers upstream provider failures.
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type.
func (t Type) String() string {
	return string(t)
}
