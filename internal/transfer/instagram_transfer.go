package transfer

type InstagramContainerResponse struct {
	ID string `json:"id"`
}

type InstagramPublishResponse struct {
	ID string `json:"id"`
}

type InstagramErrorResponse struct {
	Error FacebookError `json:"error"` // Instagram Graph errors share the Facebook shape
}
