// Package intake classifies a user-selected file as an image.
//
// A selection moves through three stages and ends in exactly one Status:
//
//	START --(no file)--> NotSelected
//	START --(file)--> LOADING --(read fails)--> FileError
//	LOADING --(read ok)--> DECODING --(decode fails)--> NotImage
//	DECODING --(decode ok)--> Selected
//
// The Loader reads the file into a RawContent, a base64 data URL whose media
// type is sniffed from the file's magic bytes. The Decoder fully decodes that
// content and reports the intrinsic pixel size. Read failures are *ReadFailure
// (matching ErrRead) and decode failures are *DecodeFailure (matching
// ErrDecode); Pipeline.Run turns both into a Status and never returns an error.
//
// # Sessions
//
// Session holds the single current-status slot. Each Select call gets a uuid
// selection id and a Ticket that resolves exactly once. Selecting again while
// a previous selection is in flight cancels the older one, and its result, if
// it arrives anyway, is dropped: the latest selection always wins. While a
// selection is unresolved, Current reports Pending with the previous status.
package intake
