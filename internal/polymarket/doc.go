// Package polymarket provides REST clients for the Polymarket public APIs.
//
// Endpoints:
//   - Gamma (event/market catalog): https://gamma-api.polymarket.com
//   - CLOB (price histories): https://clob.polymarket.com
//
// Price histories come from GET /prices-history with fidelity=1 (minute
// bars); the YES outcome's token is clobTokenIds[0] by CLOB convention.
package polymarket
