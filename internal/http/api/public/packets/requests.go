package packets

type SelectionRequest struct {
	Channels []string `json:"channels" binding:"required"`
}
