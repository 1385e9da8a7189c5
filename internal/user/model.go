package user

type SignUpForm struct {
	Name       string `json:"name" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RePassword string `json:"rePassword" validate:"required,eqfield=Password"`
	Phone      string `json:"phone" validate:"required,egmobile"`
}

type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Profile is the cached account info shown on the account page and used
// to prefill checkout. It never carries a password.
type Profile struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AuthResponse is what auth/signin and auth/signup answer with.
type AuthResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
	Token   string  `json:"token"`
}
