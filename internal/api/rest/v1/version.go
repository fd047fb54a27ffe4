package v1

// BasePath is the prefix of every versioned API route
const BasePath = "/api"

// Version is reported by the health endpoint
const Version = "1.0.0"
