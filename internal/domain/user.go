package domain

// UserName is the split display name of a catalog user.
type UserName struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type Geolocation struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

// Address stores address fields sent to and returned by the catalog.
type Address struct {
	City        string      `json:"city"`
	Street      string      `json:"street"`
	Number      int         `json:"number"`
	Zipcode     string      `json:"zipcode"`
	Geolocation Geolocation `json:"geolocation"`
}

// User represents an account registered with the catalog.
type User struct {
	ID       int      `json:"id,omitempty"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Password string   `json:"password,omitempty"`
	Name     UserName `json:"name"`
	Phone    string   `json:"phone,omitempty"`
	Address  *Address `json:"address,omitempty"`
}
