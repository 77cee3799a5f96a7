// Package eodhd is a client for the EOD Historical Data web API
// (https://eodhistoricaldata.com). It covers the delayed real-time quote,
// end-of-day history and dividend history endpoints.
//
// A registered API token is required. The client performs no retries, rate
// limiting or caching; failures surface as *FetchError, *DeserializeError or
// *ConnectionError.
package eodhd
