package drivers

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/stager00/crawlmap/pkg/vision"
)

// Webcam captures snapshots from a local video device through OpenCV.
type Webcam struct {
	mu     sync.Mutex
	device *gocv.VideoCapture
	frame  gocv.Mat
}

// OpenWebcam opens the capture device with the given id.
func OpenWebcam(deviceID int) (*Webcam, error) {
	device, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("webcam: open device %d: %w", deviceID, err)
	}
	return &Webcam{
		device: device,
		frame:  gocv.NewMat(),
	}, nil
}

// Capture grabs one frame and returns it as a JPEG snapshot.
func (w *Webcam) Capture() (*vision.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.device.Read(&w.frame) || w.frame.Empty() {
		return nil, errors.New("webcam: no frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.frame)
	if err != nil {
		return nil, fmt.Errorf("webcam: encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	return vision.NewSnapshot(jpeg, time.Now()), nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame.Close()
	return w.device.Close()
}
