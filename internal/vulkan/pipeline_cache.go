package vulkan

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// pipelineCacheHeaderVersionOne is VK_PIPELINE_CACHE_HEADER_VERSION_ONE.
const pipelineCacheHeaderVersionOne = 1

const pipelineCacheHeaderSize = 16 + len(uuid.UUID{})

// pipelineCacheHeader is the prefix every driver writes in front of its pipeline cache data.
type pipelineCacheHeader struct {
	Length   uint32
	Version  uint32
	VendorID uint32
	DeviceID uint32
	UUID     uuid.UUID
}

func parsePipelineCacheHeader(data []byte) (pipelineCacheHeader, error) {
	var header pipelineCacheHeader
	if len(data) < pipelineCacheHeaderSize {
		return header, errors.Newf("pipeline cache is %d bytes, shorter than its header", len(data))
	}
	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header)
	return header, errors.Wrap(err, "read pipeline cache header")
}

// checkPipelineCache reports why data cannot seed a pipeline cache on the device described by
// want, or nil when it can.
func checkPipelineCache(data []byte, want pipelineCacheHeader) error {
	header, err := parsePipelineCacheHeader(data)
	if err != nil {
		return err
	}

	if header.Length < uint32(pipelineCacheHeaderSize) {
		return errors.Newf("bad header length %d", header.Length)
	}
	if header.Version != pipelineCacheHeaderVersionOne {
		return errors.Newf("unsupported header version %d", header.Version)
	}
	if header.VendorID != want.VendorID {
		return errors.Newf("vendor id mismatch: cache has 0x%x, driver expects 0x%x", header.VendorID, want.VendorID)
	}
	if header.DeviceID != want.DeviceID {
		return errors.Newf("device id mismatch: cache has 0x%x, driver expects 0x%x", header.DeviceID, want.DeviceID)
	}
	if header.UUID != want.UUID {
		return errors.Newf("uuid mismatch: cache has %s, driver expects %s", header.UUID, want.UUID)
	}
	return nil
}
