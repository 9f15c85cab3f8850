package request

// ToggleLike carries the desired like state. A pointer keeps `{"liked": false}`
// bindable under the required rule.
type ToggleLike struct {
	Liked *bool `json:"liked" binding:"required"`
}

// Comment is the submission shape; lengths are enforced by the service after
// trimming, binding only guards the overall shape.
type Comment struct {
	Author string `json:"author" binding:"required"`
	Body   string `json:"body" binding:"required"`
}
