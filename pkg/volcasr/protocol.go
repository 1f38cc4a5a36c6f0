package volcasr

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

type (
	protocolVersion   byte
	messageType       byte
	messageTypeFlags  byte
	serializationType byte
	compressionType   byte
)

const (
	protocolVersionV1 protocolVersion = 0b0001

	// 客户端只发 full client (配置) 和 audio only (音频帧)，
	// 服务端回 full server (识别结果) 或 error。
	msgTypeFullClient      messageType = 0b0001
	msgTypeAudioOnlyClient messageType = 0b0010
	msgTypeFullServer      messageType = 0b1001
	msgTypeError           messageType = 0b1111

	msgFlagNoSequence  messageTypeFlags = 0b0000
	msgFlagPosSequence messageTypeFlags = 0b0001 // bit 0: sequence field present
	msgFlagLastPacket  messageTypeFlags = 0b0010 // bit 1: final packet of the stream
	msgFlagNegSequence messageTypeFlags = 0b0011 // negated sequence marks end of audio

	serializationNone serializationType = 0b0000 // audio 帧的零值
	serializationJSON serializationType = 0b0001

	compressionNone compressionType = 0b0000
	compressionGzip compressionType = 0b0001
)

// message 是二进制协议的一帧。帧头固定 4 字节，其后字段按 flags 出现:
//
//	byte 0: version(4) | header_size(4)，header_size 以 4 字节为单位
//	byte 1: message_type(4) | flags(4)
//	byte 2: serialization(4) | compression(4)
//	byte 3: reserved
//	[flags bit 0]  sequence   int32  big-endian
//	[仅 error 帧]  error_code uint32 big-endian
//	payload_size uint32 big-endian + payload
type message struct {
	msgType       messageType
	flags         messageTypeFlags
	serialization serializationType
	compression   compressionType
	sequence      int32
	errorCode     uint32
	payload       []byte
}

// newConfigMessage 创建识别配置消息（JSON + gzip，sequence 固定为 1）
func newConfigMessage(payload []byte) *message {
	return &message{
		msgType:       msgTypeFullClient,
		flags:         msgFlagPosSequence,
		serialization: serializationJSON,
		compression:   compressionGzip,
		sequence:      1,
		payload:       payload,
	}
}

// newAudioMessage 创建音频消息（原始 PCM，不压缩）
func newAudioMessage(pcm []byte, sequence int32) *message {
	return &message{
		msgType:     msgTypeAudioOnlyClient,
		flags:       msgFlagPosSequence,
		compression: compressionNone,
		sequence:    sequence,
		payload:     pcm,
	}
}

// newFinishMessage 创建结束消息（空载荷，sequence 取负值）
func newFinishMessage(sequence int32) *message {
	return &message{
		msgType:     msgTypeAudioOnlyClient,
		flags:       msgFlagNegSequence,
		compression: compressionNone,
		sequence:    -sequence,
	}
}

func (m *message) hasSequence() bool { return m.flags&msgFlagPosSequence != 0 }
func (m *message) isLast() bool      { return m.flags&msgFlagLastPacket != 0 }
func (m *message) isError() bool     { return m.msgType == msgTypeError }

// marshal 按协议格式编码一帧
func (m *message) marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{
		byte(protocolVersionV1<<4) | 0x01,
		byte(m.msgType<<4) | byte(m.flags),
		byte(m.serialization<<4) | byte(m.compression),
		0x00,
	})

	if m.hasSequence() {
		if err := binary.Write(&buf, binary.BigEndian, m.sequence); err != nil {
			return nil, fmt.Errorf("write sequence: %w", err)
		}
	}

	payload := m.payload
	if m.compression == compressionGzip && len(payload) > 0 {
		compressed, err := gzipCompress(payload)
		if err != nil {
			return nil, fmt.Errorf("gzip compress: %w", err)
		}
		payload = compressed
	}

	if err := binary.Write(&buf, binary.BigEndian, uint32(len(payload))); err != nil {
		return nil, fmt.Errorf("write payload size: %w", err)
	}
	buf.Write(payload)

	return buf.Bytes(), nil
}

// unmarshalMessage 解码服务端的一帧
func unmarshalMessage(data []byte) (*message, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("data too short: %d bytes", len(data))
	}

	msg := &message{
		msgType:       messageType(data[1] >> 4),
		flags:         messageTypeFlags(data[1] & 0x0f),
		serialization: serializationType(data[2] >> 4),
		compression:   compressionType(data[2] & 0x0f),
	}

	rest := data[4:]
	// header_size 以 4 字节为单位，超出 1 的部分是扩展头，直接跳过
	if ext := int(data[0]&0x0f)*4 - 4; ext > 0 {
		if len(rest) < ext {
			return nil, fmt.Errorf("header extension truncated: %d bytes", len(rest))
		}
		rest = rest[ext:]
	}
	buf := bytes.NewReader(rest)

	if msg.isError() {
		if err := binary.Read(buf, binary.BigEndian, &msg.errorCode); err != nil {
			return nil, fmt.Errorf("read error code: %w", err)
		}
		return msg, nil
	}

	if msg.hasSequence() {
		if err := binary.Read(buf, binary.BigEndian, &msg.sequence); err != nil {
			return nil, fmt.Errorf("read sequence: %w", err)
		}
	}

	var payloadSize uint32
	if err := binary.Read(buf, binary.BigEndian, &payloadSize); err != nil {
		return nil, fmt.Errorf("read payload size: %w", err)
	}

	if payloadSize > 0 {
		msg.payload = make([]byte, payloadSize)
		if _, err := io.ReadFull(buf, msg.payload); err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}

		if msg.compression == compressionGzip {
			decompressed, err := gzipDecompress(msg.payload)
			if err != nil {
				return nil, fmt.Errorf("gzip decompress: %w", err)
			}
			msg.payload = decompressed
		}
	}

	return msg, nil
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
