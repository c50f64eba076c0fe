package core

const (
	// PayloadSizeLimitBytes approximates the maximum payload stored in a ConfigMap.
	PayloadSizeLimitBytes = 1048576 // 1MiB
	// PayloadSizeWarnThresholdBytes raises a warning above ~90% of the limit.
	PayloadSizeWarnThresholdBytes = PayloadSizeLimitBytes * 9 / 10
)

// SizeCheckResult captures the outcome of validating a source payload size.
type SizeCheckResult struct {
	Bytes int
	Warn  bool
	Block bool
}

// CheckPayloadSize computes the serialized size of a source payload before
// parsing, so oversized ConfigMaps are rejected up front.
func CheckPayloadSize(data map[string]string) SizeCheckResult {
	total := 0
	for k, v := range data {
		total += len(k) + len(v)
	}
	res := SizeCheckResult{Bytes: total}
	if total > PayloadSizeLimitBytes {
		res.Block = true
	} else if total > PayloadSizeWarnThresholdBytes {
		res.Warn = true
	}
	return res
}
