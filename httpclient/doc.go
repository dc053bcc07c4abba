// Package httpclient is the outbound HTTP client shared by the transcription
// providers and the LLM client. It handles authentication, multipart
// uploads, status classification and optional resilience (retry, circuit
// breaker, client-side rate limiting).
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.openai.com",
//	    Timeout: 2 * time.Minute,
//	    Auth:    httpclient.BearerAuth(apiKey),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v1/audio/transcriptions",
//	    Body:   &httpclient.MultipartBody{...},
//	})
//
// Errors are *Error values classified by ErrorCode; IsRetryable reports
// whether a failure is worth another attempt.
package httpclient
