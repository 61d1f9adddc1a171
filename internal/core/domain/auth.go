package domain

import "encoding/base64"

// BasicToken encodes username and password as a Basic-Auth token
func BasicToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
