package handshake

// MsgType identifies a handshake message body. RFC 5246 Section-7.4;
// RFC 6347 Section-4.3.2 adds HelloVerifyRequest(3).
type MsgType uint8

const (
	TypeHelloRequest       MsgType = 0
	TypeClientHello        MsgType = 1
	TypeServerHello        MsgType = 2
	TypeHelloVerifyRequest MsgType = 3
	TypeCertificate        MsgType = 11
	TypeServerKeyExchange  MsgType = 12
	TypeCertificateRequest MsgType = 13
	TypeServerHelloDone    MsgType = 14
	TypeCertificateVerify  MsgType = 15
	TypeClientKeyExchange  MsgType = 16
	TypeFinished           MsgType = 20
)

func (t MsgType) String() string {
	switch t {
	case TypeHelloRequest:
		return "HelloRequest"
	case TypeClientHello:
		return "ClientHello"
	case TypeServerHello:
		return "ServerHello"
	case TypeHelloVerifyRequest:
		return "HelloVerifyRequest"
	case TypeCertificate:
		return "Certificate"
	case TypeServerKeyExchange:
		return "ServerKeyExchange"
	case TypeCertificateRequest:
		return "CertificateRequest"
	case TypeServerHelloDone:
		return "ServerHelloDone"
	case TypeCertificateVerify:
		return "CertificateVerify"
	case TypeClientKeyExchange:
		return "ClientKeyExchange"
	case TypeFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}
