package errs

const (
	// CodeInvalidArgument is returned when a required input is absent, malformed, or out of bound.
	CodeInvalidArgument = "invalid_argument"
	// CodePlatformResolution is returned when the default storage location could not be determined.
	CodePlatformResolution = "platform_resolution"
	// CodeManifestLoad is returned when the revocation manifest could not be read or parsed.
	CodeManifestLoad = "manifest_load"
	// CodeCheckFailed is returned when an internal invariant was violated during a revocation check.
	CodeCheckFailed = "check_failed"
	// CodePathEncoding is returned when a supplied path is not valid UTF-8.
	CodePathEncoding = "path_encoding"
	// CodeConfigLoad is returned when the configuration file could not be read or parsed.
	CodeConfigLoad = "config_load"
	// CodeUnexpected is returned when something went wrong.
	CodeUnexpected = "unexpected"
)
