package main

import (
	"image"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/esimov/imgkit"
	"github.com/esimov/imgkit/rgb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of the environment variables overriding the flags, e.g. IMGKIT_WIDTH.
const envPrefix = "imgkit"

// newFlagSet declares the command line flags.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("imgkit", pflag.ContinueOnError)

	fs.String("in", pipeName, "Source file, directory, URL or - for stdin")
	fs.String("out", pipeName, "Destination file, directory or - for stdout")
	fs.String("format", "jpeg", "Output format used when writing to stdout")
	fs.String("resize", "scale", "Resize mode: scale, fit, fill or exact")
	fs.String("resample", "lanczos", "Resampling filter: lanczos, catmullrom, mitchell, linear, box or nearest")
	fs.Int("width", 0, "New width")
	fs.Int("height", 0, "New height")
	fs.StringSlice("filter", nil, "Filters applied in order: greyscale, invert, blur, sharpen, edge, dither")
	fs.Float64("rotate", 0, "Counter-clockwise rotation angle in degrees")
	fs.String("bg", "transparent", "Background color of the areas uncovered by the rotation")
	fs.String("flip", "", "Flip the image: v, h or both")
	fs.String("crop", "", "Crop region as x,y,width,height")
	fs.Int("quality", -1, "JPEG quality (0-100), PNG compression level (0-9) or GIF palette size; -1 keeps the format default")
	fs.String("text", "", "Text drawn over the image")
	fs.String("font", "", "TrueType or OpenType font file used to draw the text")
	fs.Float64("size", 24, "Font size in points")
	fs.String("color", "black", "Text color, as a name or #rrggbb")
	fs.Float64("text-angle", 0, "Counter-clockwise text rotation in degrees")
	fs.Int("text-x", 10, "Horizontal position of the text baseline")
	fs.Int("text-y", 30, "Vertical position of the text baseline")
	fs.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	fs.String("config", "", "Configuration file (toml, yaml or json)")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")

	return fs
}

// loadConfig parses the command line arguments and merges them with the
// environment and the optional configuration file. Explicit flags take
// precedence over the environment, which takes precedence over the file.
func loadConfig(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "could not bind flags")
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file %s", path)
		}
	}
	return v, nil
}

// newLogger returns a console logger writing to w at the configured level.
func newLogger(w io.Writer, level string) zerolog.Logger {
	var logLevel zerolog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(logLevel).
		With().
		Timestamp().
		Logger()
}

// newProcessor builds the image processor from the configuration.
func newProcessor(v *viper.Viper, logger *zerolog.Logger) (*imgkit.Processor, error) {
	var err error

	proc := &imgkit.Processor{
		Factory: &imgkit.Factory{
			Logger:     logger,
			Resample:   v.GetString("resample"),
			AutoOrient: true,
		},
		NewWidth:  v.GetInt("width"),
		NewHeight: v.GetInt("height"),
		Angle:     v.GetFloat64("rotate"),
	}

	if proc.NewWidth < 0 || proc.NewHeight < 0 {
		return nil, errors.Wrapf(imgkit.ErrInvalidDimensions, "%dx%d", proc.NewWidth, proc.NewHeight)
	}
	if proc.NewWidth > 0 || proc.NewHeight > 0 {
		if proc.Mode, err = imgkit.ParseMode(v.GetString("resize")); err != nil {
			return nil, err
		}
	}

	if proc.Format, err = imgkit.ParseFormat(v.GetString("format")); err != nil {
		return nil, err
	}

	if crop := v.GetString("crop"); crop != "" {
		if proc.Crop, err = parseCrop(crop); err != nil {
			return nil, err
		}
	}

	for _, name := range filterNames(v.GetStringSlice("filter")) {
		filter, err := imgkit.ParseFilter(name)
		if err != nil {
			return nil, err
		}
		proc.Filters = append(proc.Filters, filter)
	}

	if proc.Background, err = rgb.Parse(v.GetString("bg")); err != nil {
		return nil, err
	}
	if proc.Flip, err = imgkit.ParseFlip(v.GetString("flip")); err != nil {
		return nil, err
	}

	if text := v.GetString("text"); text != "" {
		col, err := rgb.Parse(v.GetString("color"))
		if err != nil {
			return nil, err
		}
		el := proc.Factory.CreateTextElement().
			WithText(text).
			WithFont(v.GetString("font")).
			WithSize(v.GetFloat64("size")).
			WithAngle(v.GetFloat64("text-angle")).
			WithColor(col)

		proc.Elements = append(proc.Elements, imgkit.Placement{
			Element: el,
			At:      image.Pt(v.GetInt("text-x"), v.GetInt("text-y")),
		})
	}
	return proc, nil
}

// filterNames splits the comma separated filter lists. Values coming from the
// environment or a config file string are not split by viper.
func filterNames(values []string) []string {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// parseCrop parses a crop region given as x,y,width,height.
func parseCrop(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, errors.Errorf("invalid crop region %q, expected x,y,width,height", s)
	}

	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, errors.Wrapf(err, "invalid crop region %q", s)
		}
		n[i] = v
	}
	if n[2] <= 0 || n[3] <= 0 {
		return image.Rectangle{}, errors.Wrapf(imgkit.ErrOutOfBounds, "empty crop region %q", s)
	}
	return image.Rect(n[0], n[1], n[0]+n[2], n[1]+n[3]), nil
}

// strategyFor returns the write strategy of format for the quality flag.
// A negative quality selects the format default.
func strategyFor(format imgkit.Format, quality int) (imgkit.WriteStrategy, error) {
	if quality < 0 {
		return imgkit.DefaultStrategy(format)
	}

	var s imgkit.WriteStrategy
	switch format {
	case imgkit.JPEG:
		s = imgkit.JPEGStrategy{Quality: quality}
	case imgkit.PNG:
		s = imgkit.PNGStrategy{CompressionLevel: quality}
	case imgkit.GIF:
		s = imgkit.GIFStrategy{NumColors: quality}
	default:
		return imgkit.DefaultStrategy(format)
	}
	return s, s.Validate()
}
