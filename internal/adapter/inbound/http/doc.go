// Package http exposes the storefront surface to the browser.
//
// The gateway serves a localhost JSON API backed by the local cart and
// session stores and the remote commerce backend:
//
//	GET    /api/products                    - product list
//	GET    /api/products/{id}               - single product
//	GET    /api/cart                        - cart snapshot (lines + total)
//	POST   /api/cart/items                  - add a line (aggregates quantity)
//	DELETE /api/cart/items/{productID}      - remove a line
//	DELETE /api/cart                        - clear the cart
//	POST   /api/checkout                    - place the cart as an order
//	POST   /api/auth/register               - create account + sign in
//	POST   /api/auth/login                  - sign in
//	POST   /api/auth/logout                 - sign out
//	GET    /api/auth/me                     - current identity
//	GET    /api/orders                      - current user's order history
//	GET    /api/admin/orders                - all orders (admin)
//	PUT    /api/admin/orders/{id}/status    - update order status (admin)
//	POST   /api/admin/products              - create product (admin)
//	PUT    /api/admin/products/{id}         - update product (admin)
//	DELETE /api/admin/products/{id}         - delete product (admin)
//	GET    /api/admin/users                 - paged user search (admin)
//	PUT    /api/admin/users/{id}/admin      - toggle admin flag (admin)
//	POST   /api/upload                      - multipart image upload (admin)
//	GET    /images/{name}                   - uploaded images, served statically
//	GET    /health                          - component health
//	GET    /metrics                         - Prometheus metrics
//
// Requests pass through middleware in this order:
//
//  1. MetricsMiddleware - request counter and duration histogram
//  2. RequestIDMiddleware - X-Request-ID extraction/generation, enriched logger
//  3. RecoverMiddleware - panic recovery to a 500 response
//  4. CORSMiddleware - Origin allowlist for browser clients
//  5. Handler - route dispatch
//
// Product and cart GET responses carry an ETag so the browser can revalidate
// cheaply; conditional requests with a matching tag get 304 Not Modified.
package http
