// Package security builds the client TLS settings used for outbound
// connections to transcription and LLM endpoints.
//
//	transcription:
//	  provider: whisper
//	  base_url: https://whisper.internal:9000
//	  tls:
//	    ca_file: /etc/scribe/internal-ca.pem
package security
