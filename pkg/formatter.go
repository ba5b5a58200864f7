package provis

import (
	"fmt"

	"github.com/mitchellh/colorstring"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type provisTextFormatter struct {
	colorize *colorstring.Colorize
	colors   map[logrus.Level]string
}

func newTextFormatter(colorize bool, v *viper.Viper) *provisTextFormatter {
	return &provisTextFormatter{
		colorize: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !colorize,
			Reset:   true,
		},
		colors: map[logrus.Level]string{
			logrus.PanicLevel: v.GetString("log_color_panic"),
			logrus.FatalLevel: v.GetString("log_color_fatal"),
			logrus.ErrorLevel: v.GetString("log_color_error"),
			logrus.WarnLevel:  v.GetString("log_color_warn"),
			logrus.InfoLevel:  v.GetString("log_color_info"),
			logrus.DebugLevel: v.GetString("log_color_debug"),
			logrus.TraceLevel: v.GetString("log_color_trace"),
		},
	}
}

func (f *provisTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var prefix = "[" + f.colors[entry.Level] + "]"
	recipe := entry.Data["recipe"]
	if recipe != nil {
		switch recipe := recipe.(type) {
		case string:
			step := entry.Data["step"]
			if step != nil {
				switch step := step.(type) {
				case string:
					prefix = fmt.Sprintf("%s%s.%s ≫ ", prefix, recipe, step)
				}
			} else {
				prefix = fmt.Sprintf("%s%s ≫ ", prefix, recipe)
			}
		}
	}
	return []byte(f.colorize.Color(fmt.Sprintf("%s%s\n", prefix, entry.Message))), nil
}

type MessageOnlyFormatter struct {
}

func (f *MessageOnlyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}
