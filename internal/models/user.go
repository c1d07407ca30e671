// server/internal/models/user.go
package models

// User matches the document in MongoDB. Password holds the bcrypt hash.
type User struct {
	Email    string `bson:"email" json:"email"`
	Name     string `bson:"name" json:"name"`
	Password string `bson:"password" json:"-"`
	Role     string `bson:"role" json:"role"`
	Sub      string `bson:"sub" json:"sub"`
	Status   string `bson:"status" json:"status"`
}
