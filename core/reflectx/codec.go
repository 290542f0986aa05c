package reflectx

// BytesDecoder defines an interface for decoding an object from bytes.
// ValueOf prefers it over every other decoding strategy.
type BytesDecoder interface {
	DecodeFromBytes([]byte) error
}

// BytesEncoder defines an interface for encoding an object to bytes.
type BytesEncoder interface {
	EncodeToBytes() ([]byte, error)
}
