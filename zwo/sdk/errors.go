package sdk

import "fmt"

// ErrCodes is a map of error codes (ints) to error strings
var ErrCodes = map[DRVError]string{
	0:  "ASI_SUCCESS",
	1:  "ASI_ERROR_INVALID_INDEX",
	2:  "ASI_ERROR_INVALID_ID",
	3:  "ASI_ERROR_INVALID_CONTROL_TYPE",
	4:  "ASI_ERROR_CAMERA_CLOSED",
	5:  "ASI_ERROR_CAMERA_REMOVED",
	6:  "ASI_ERROR_INVALID_PATH",
	7:  "ASI_ERROR_INVALID_FILEFORMAT",
	8:  "ASI_ERROR_INVALID_SIZE",
	9:  "ASI_ERROR_INVALID_IMGTYPE",
	10: "ASI_ERROR_OUTOF_BOUNDARY",
	11: "ASI_ERROR_TIMEOUT",
	12: "ASI_ERROR_INVALID_SEQUENCE",
	13: "ASI_ERROR_BUFFER_TOO_SMALL",
	14: "ASI_ERROR_INVALID_VIDEO_MODE",
	15: "ASI_ERROR_EXPOSURE_IN_PROGRESS",
	16: "ASI_ERROR_GENERAL_ERROR",
	17: "ASI_ERROR_INVALID_MODE",
}

// DRVError represents a driver error and has nice formatting
type DRVError int

// Error satisfies the error interface
func (e DRVError) Error() string {
	if s, ok := ErrCodes[e]; ok {
		return fmt.Sprintf("%d - %s", int(e), s)
	}
	return fmt.Sprintf("%d - ASI: UNKNOWN ERROR CODE", int(e))
}

// Error returns nil on success, otherwise a DRVError
func Error(code int) error {
	if code == 0 {
		return nil
	}
	return DRVError(code)
}

func enrich(err error, call string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", call, err)
}
