// Package openapi embeds the OpenAPI 3 contract for the assessment JSON API
// and validates request bodies against it with kin-openapi.
package openapi
