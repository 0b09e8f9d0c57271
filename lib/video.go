package lib

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// VideoMeta describes a probed video stream. FrameCount may be estimated
// from duration when the container does not carry an exact count.
type VideoMeta struct {
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	Duration   float64
}

// FrameSource yields decoded frames in presentation order. Read returns
// io.EOF at end of stream.
type FrameSource interface {
	Meta() VideoMeta
	Read() (Image, error)
	Close() error
}

// FrameSink consumes reconstructed frames.
type FrameSink interface {
	Write(Image) error
	Close() error
}

// Probe reads stream metadata with ffprobe.
func Probe(fname string) (VideoMeta, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return VideoMeta{}, fmt.Errorf("%w: ffprobe not found in PATH", ErrSourceOpen)
	}
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames",
		"-of", "csv=p=0",
		fname,
	).Output()
	if err != nil {
		return VideoMeta{}, fmt.Errorf("%w: ffprobe %s: %v", ErrSourceOpen, fname, err)
	}
	meta, err := parseProbeLine(strings.TrimSpace(string(out)))
	if err != nil {
		return VideoMeta{}, fmt.Errorf("%w: %s: %v", ErrSourceOpen, fname, err)
	}

	if meta.FrameCount == 0 {
		// container carries no frame count; estimate from format duration
		out, err := exec.Command("ffprobe",
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "csv=p=0",
			fname,
		).Output()
		if err == nil {
			if d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64); err == nil && d > 0 {
				meta.Duration = d
				if meta.FPS > 0 {
					meta.FrameCount = int(d * meta.FPS)
				}
			}
		}
	}
	return meta, nil
}

func parseProbeLine(line string) (VideoMeta, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return VideoMeta{}, fmt.Errorf("unexpected ffprobe output %q", line)
	}
	width, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || width <= 0 {
		return VideoMeta{}, fmt.Errorf("bad stream width %q", fields[0])
	}
	height, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || height <= 0 {
		return VideoMeta{}, fmt.Errorf("bad stream height %q", fields[1])
	}
	fps := parseFrameRate(fields[2])
	if fps <= 0 {
		fps = parseFrameRate(fields[3])
	}
	frames, _ := strconv.Atoi(strings.TrimSpace(fields[4]))
	return VideoMeta{Width: width, Height: height, FPS: fps, FrameCount: frames}, nil
}

// parseFrameRate handles ffprobe's "num/den" rational rates.
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 2 {
			num, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			den, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 == nil && err2 == nil && den > 0 {
				return num / den
			}
		}
		return 0
	}
	fps, _ := strconv.ParseFloat(s, 64)
	return fps
}

// VideoReader decodes a video into raw RGB24 frames over an ffmpeg pipe.
type VideoReader struct {
	meta   VideoMeta
	cmd    *exec.Cmd
	stdout io.ReadCloser
	buf    []byte
}

func OpenVideo(fname string) (*VideoReader, error) {
	meta, err := Probe(fname)
	if err != nil {
		return nil, err
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrSourceOpen)
	}
	cmd := exec.Command("ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", fname,
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"-",
	)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceOpen, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg %s: %v", ErrSourceOpen, fname, err)
	}
	return &VideoReader{
		meta:   meta,
		cmd:    cmd,
		stdout: stdout,
		buf:    make([]byte, meta.Width*meta.Height*3),
	}, nil
}

func (rd *VideoReader) Meta() VideoMeta { return rd.meta }

// Read returns the next frame with its own backing buffer, io.EOF at a
// clean end of stream. A partial trailing frame is a decode failure.
func (rd *VideoReader) Read() (Image, error) {
	_, err := io.ReadFull(rd.stdout, rd.buf)
	if err == io.EOF {
		return Image{}, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return Image{}, fmt.Errorf("truncated frame at end of stream")
	}
	if err != nil {
		return Image{}, err
	}
	bytes := make([]byte, len(rd.buf))
	copy(bytes, rd.buf)
	return ImageFromBytes(rd.meta.Width, rd.meta.Height, bytes), nil
}

func (rd *VideoReader) Close() error {
	rd.stdout.Close()
	if err := rd.cmd.Wait(); err != nil {
		// expected when the run stops before draining the stream
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return err
	}
	return nil
}

// Encode quality presets. The CRF values follow the historical presets;
// the qscale values come from the same presets' percentage mapping
// (100-q)*31/100 for encoders without CRF support.
var (
	qualityCRF    = map[string]string{"light": "18", "medium": "23", "heavy": "28", "maximum": "35"}
	qualityQscale = map[string]string{"light": "4", "medium": "7", "heavy": "12", "maximum": "18"}
)

// QualityPresets lists accepted encode quality names.
func QualityPresets() []string {
	return []string{"none", "light", "medium", "heavy", "maximum"}
}

// VideoWriter encodes raw RGB24 frames through an ffmpeg pipe.
type VideoWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	width  int
	height int
	frames int
}

// CreateVideo opens an encoding pipe. format selects the codec (mp4 uses
// libx264, avi uses mpeg4) and quality one of QualityPresets.
func CreateVideo(fname string, fps float64, width, height int, format, quality string) (*VideoWriter, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrSinkOpen)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
	}
	if format == "avi" {
		args = append(args, "-c:v", "mpeg4")
		if q, ok := qualityQscale[quality]; ok {
			args = append(args, "-q:v", q)
		}
	} else {
		args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p")
		if crf, ok := qualityCRF[quality]; ok {
			args = append(args, "-crf", crf, "-preset", "medium")
		}
	}
	args = append(args, fname)

	cmd := exec.Command("ffmpeg", args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkOpen, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg %s: %v", ErrSinkOpen, fname, err)
	}
	return &VideoWriter{cmd: cmd, stdin: stdin, width: width, height: height}, nil
}

func (wr *VideoWriter) Write(im Image) error {
	if im.Width != wr.width || im.Height != wr.height {
		return fmt.Errorf("frame size %dx%d does not match sink %dx%d",
			im.Width, im.Height, wr.width, wr.height)
	}
	if _, err := wr.stdin.Write(im.Bytes); err != nil {
		return fmt.Errorf("write frame %d: %v", wr.frames, err)
	}
	wr.frames++
	return nil
}

// Frames is the number of frames written so far.
func (wr *VideoWriter) Frames() int { return wr.frames }

func (wr *VideoWriter) Close() error {
	wr.stdin.Close()
	return wr.cmd.Wait()
}
