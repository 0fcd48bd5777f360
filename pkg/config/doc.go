// Package config provides application configuration management from environment variables.
//
// # Configuration Structure
//
// Server settings:
//
//	CAMPUS_HOST="0.0.0.0"
//	CAMPUS_PORT="8080"
//	CAMPUS_HEALTH_PORT="9090"
//	CAMPUS_READ_TIMEOUT="15s"
//	CAMPUS_WRITE_TIMEOUT="15s"
//
// Identity provider settings (BaseURL and AnonKey are required; startup fails
// without them):
//
//	CAMPUS_AUTH_BASE_URL="https://auth.example.com"
//	CAMPUS_AUTH_ANON_KEY="pk_..."
//	CAMPUS_AUTH_CLIENT_SECRET="sk_..."
//	CAMPUS_AUTH_REDIRECT_URL="https://campus.example.com/auth/callback"
//	CAMPUS_AUTH_SCOPES="openid,email,profile"
//
// Storage settings:
//
//	CAMPUS_POSTGRES_URL="postgres://localhost/campus"
//	CAMPUS_S3_ENDPOINT=""            # empty for AWS, set for MinIO
//	CAMPUS_S3_BUCKET="course-files"
//	CAMPUS_S3_REGION="us-east-1"
//	CAMPUS_SIGNED_URL_TTL="30m"
//
// Observability settings:
//
//	CAMPUS_LOG_LEVEL="info"  # debug, info, warn, error
//	CAMPUS_METRICS_ENABLED="true"
//	CAMPUS_TRACING_ENABLED="false"
//	CAMPUS_OTEL_ENDPOINT="otel-collector:4317"
package config
