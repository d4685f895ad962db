package proto

// ConfigRequest wraps cfg into an STTRequest.
func ConfigRequest(cfg *STTConfig) *STTRequest {
	return &STTRequest{Request: &STTRequest_Config{Config: cfg}}
}

// AudioRequest wraps audio bytes into an STTRequest.
func AudioRequest(audio []byte) *STTRequest {
	return &STTRequest{Request: &STTRequest_Audio{Audio: &AudioChunk{Audio: audio}}}
}

// EndRequest returns the EndOfStream request.
func EndRequest() *STTRequest {
	return &STTRequest{Request: &STTRequest_End{End: &EndOfStream{}}}
}

// FinalResponse wraps a final transcript into an STTResponse.
func FinalResponse(text string, confidence float32) *STTResponse {
	return &STTResponse{Response: &STTResponse_Final{Final: &FinalTranscript{Text: text, Confidence: confidence}}}
}

// ErrorResponse wraps an error message into an STTResponse.
func ErrorResponse(message string) *STTResponse {
	return &STTResponse{Response: &STTResponse_Error{Error: &STTError{Message: message}}}
}
