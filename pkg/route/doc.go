// Package route maps the catch-all page path onto a shortname archive or an
// asset page and decides when the request should be redirected to the
// canonical shortname/address form.
package route
