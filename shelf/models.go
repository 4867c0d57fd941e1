package shelf

// Account is a registered identity. The password is stored and compared as
// plain text; the favorite genre is decorative profile data.
type Account struct {
	Username      string `json:"username"`
	Password      string `json:"-"` // Don't serialize the credential
	Name          string `json:"name"`
	Email         string `json:"email"`
	FavoriteGenre string `json:"favorite_genre"`
}

// Book is a catalog entry. Every field except ID is free text; Year is not
// validated as numeric. ID is the surrogate key used for removal, so two
// books with the same title stay distinguishable.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Year   string `json:"year"`
}
