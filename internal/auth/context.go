package auth

import "github.com/gin-gonic/gin"

const patientIDKey = "patientID"

// GetPatientID returns the authenticated patient's ID or empty string.
func GetPatientID(c *gin.Context) string {
	if v, ok := c.Get(patientIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
