package address

type Address struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name" validate:"required,min=2"`
	Details string `json:"details" validate:"required,min=5"`
	Phone   string `json:"phone" validate:"required,egmobile"`
	City    string `json:"city" validate:"required,min=2"`
}

// Response is the envelope the remote returns for every addresses call.
type Response struct {
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	NumOfAddresses int       `json:"numOfAddresses,omitempty"`
	Data           []Address `json:"data"`
}
