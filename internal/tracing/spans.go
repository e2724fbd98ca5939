package tracing

// Span names.
const (
	SpanSubmit      = "registration.submit"
	SpanRegister    = "creatorapi.register"
	SpanUploadPhoto = "creatorapi.upload_profile_photo"
)

// Span attribute keys.
const (
	AttrCreatorType  = "registration.creator_type"
	AttrCreatorID    = "registration.creator_id"
	AttrServiceCount = "registration.service_count"
	AttrHasPhoto     = "registration.has_photo"
	AttrErrorKind    = "registration.error_kind"

	AttrHTTPMethod = "http.method"
	AttrHTTPURL    = "http.url"
	AttrHTTPStatus = "http.status_code"
	AttrRequestID  = "http.request_id"

	AttrPhotoMIME  = "photo.mime"
	AttrPhotoBytes = "photo.bytes"

	AttrErrorMessage = "error.message"
)

// Event names.
const (
	EventPhotoUploadFailed = "photo_upload.failed"
)
