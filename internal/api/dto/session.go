package dto

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email          string `json:"email"`
	RedirectTarget string `json:"redirect_to"`
}

type PasswordUpdateRequest struct {
	NewPassword string `json:"new_password"`
}

type EstimateRequest struct {
	Count int `json:"count"`
}

type CaptureRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
	ImageMime   string `json:"image_mime"`
	InputType   string `json:"input_type"`
}

type RemovePackageRequest struct {
	ID string `json:"id"`
}

type OriginRequest struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ManualAddress string   `json:"manual_address"`
}

type MoveStopRequest struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
}

type ResolveStopRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
