// Package request decodes raw inbox values written by the in-world script
// into structured song requests.
package request
