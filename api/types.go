package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Number decodes from either a JSON number or a numeric string. The backend
// stores form values as sent, so rent and area may arrive as "12000".
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Free-text values such as "2nd" are kept as zero for sorting.
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String renders the number without a trailing ".0" for whole values.
func (n Number) String() string {
	if n == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// User is the account summary the backend returns on login and register.
type User struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// DisplayName prefers an explicit name and falls back to first + last.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Property is a listing as returned by /api/properties.
type Property struct {
	ID             string   `json:"_id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Contact        string   `json:"contact"`
	AltContact     string   `json:"altContact"`
	Locality       string   `json:"locality"`
	Address        string   `json:"address"`
	Latitude       Number   `json:"latitude"`
	Longitude      Number   `json:"longitude"`
	SpaceType      string   `json:"spaceType"`
	PetsAllowed    string   `json:"petsAllowed"`
	Preference     string   `json:"preference"`
	Bachelors      string   `json:"bachelors"`
	FurnishingType string   `json:"furnishingType"`
	BHK            Number   `json:"bhk"`
	Floor          Number   `json:"floor"`
	Landmark       string   `json:"landmark"`
	WashroomType   string   `json:"washroomType"`
	Cooling        string   `json:"cooling"`
	Parking        string   `json:"parking"`
	Rent           Number   `json:"rent"`
	Maintenance    Number   `json:"maintenance"`
	Area           Number   `json:"area"`
	Appliances     []string `json:"appliances"`
	Amenities      []string `json:"amenities"`
	About          string   `json:"about"`
	Photos         []string `json:"photos"`
	Views          int      `json:"views"`
	CreatedAt      string   `json:"createdAt"`
	DateUploaded   string   `json:"dateUploaded"`
}

// HasLocation reports whether the listing carries a usable coordinate.
func (p Property) HasLocation() bool {
	return p.Latitude != 0 && p.Longitude != 0
}

// Uploaded returns the creation time, falling back to dateUploaded. Zero
// when neither parses.
func (p Property) Uploaded() time.Time {
	for _, s := range []string{p.CreatedAt, p.DateUploaded} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Author is the embedded author summary on a blog post.
type Author struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Blog is a post as returned by /api/blogs.
type Blog struct {
	ID         string   `json:"_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"coverImage"`
	Author     *Author  `json:"author"`
	CreatedAt  string   `json:"createdAt"`
	Views      int      `json:"views"`
	Likes      int      `json:"likes"`
}

// AuthorName returns the author's name or "Anonymous".
func (b Blog) AuthorName() string {
	if b.Author == nil || b.Author.Name == "" {
		return "Anonymous"
	}
	return b.Author.Name
}

// Created parses CreatedAt; zero on failure.
func (b Blog) Created() time.Time {
	t, err := time.Parse(time.RFC3339, b.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BlogPage is one server-side page of posts.
type BlogPage struct {
	Blogs      []Blog `json:"blogs"`
	TotalPages int    `json:"totalPages"`
}

// BlogQuery selects a page of posts.
type BlogQuery struct {
	Page   int
	Limit  int
	SortBy string
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Answer    string `json:"answer"`
}

// Recovery is the forgot-password request body.
type Recovery struct {
	Email  string `json:"email"`
	Answer string `json:"answer"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Message is the generic {"message": "..."} response.
type Message struct {
	Message string `json:"message"`
}
