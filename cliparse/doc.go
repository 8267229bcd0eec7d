// Package cliparse parses server configuration from CLI flags with
// environment-variable fallback.
//
// Precedence is flags > environment > defaults. A .env file is honored
// when present so local deployments match the legacy backend's dotenv
// workflow.
package cliparse
