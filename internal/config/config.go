// Package config loads the settings of a docencap run from flags, environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment variables, e.g. DOCENCAP_UID_ROOT.
const EnvPrefix = "DOCENCAP"

// Config holds every setting of one run.
type Config struct {
	Class  doctype.Class `mapstructure:"-" yaml:"-"`
	Input  string        `mapstructure:"-" yaml:"-"`
	Output string        `mapstructure:"-" yaml:"-"`

	LogLevel  string `mapstructure:"log-level" yaml:"log-level"`
	LogFile   string `mapstructure:"log-file" yaml:"log-file,omitempty"`
	LogFormat string `mapstructure:"log-format" yaml:"log-format"`
	UIDRoot   string `mapstructure:"uid-root" yaml:"uid-root,omitempty"`

	PatientName      string `mapstructure:"patient-name" yaml:"patient-name,omitempty"`
	PatientID        string `mapstructure:"patient-id" yaml:"patient-id,omitempty"`
	PatientBirthDate string `mapstructure:"patient-birthdate" yaml:"patient-birthdate,omitempty"`
	PatientSex       string `mapstructure:"patient-sex" yaml:"patient-sex,omitempty"`
	Title            string `mapstructure:"title" yaml:"title,omitempty"`
	ConceptValue     string `mapstructure:"concept-value" yaml:"concept-value,omitempty"`
	ConceptScheme    string `mapstructure:"concept-scheme" yaml:"concept-scheme,omitempty"`
	ConceptMeaning   string `mapstructure:"concept-meaning" yaml:"concept-meaning,omitempty"`
	StudyUID         string `mapstructure:"study-uid" yaml:"study-uid,omitempty"`
	SeriesUID        string `mapstructure:"series-uid" yaml:"series-uid,omitempty"`

	StudyFrom   string `mapstructure:"study-from" yaml:"study-from,omitempty"`
	SeriesFrom  string `mapstructure:"series-from" yaml:"series-from,omitempty"`
	InstanceInc bool   `mapstructure:"instance-inc" yaml:"instance-inc,omitempty"`
	Instance    int    `mapstructure:"instance" yaml:"instance"`

	Keys []string `mapstructure:"key" yaml:"key,omitempty"`

	TransferSyntax string `mapstructure:"transfer-syntax" yaml:"transfer-syntax"`

	Override   bool `mapstructure:"override" yaml:"override,omitempty"`
	Annotation bool `mapstructure:"annotation" yaml:"annotation"`

	Manufacturer      string   `mapstructure:"manufacturer" yaml:"manufacturer,omitempty"`
	ManufacturerModel string   `mapstructure:"manufacturer-model" yaml:"manufacturer-model,omitempty"`
	DeviceSerial      string   `mapstructure:"device-serial" yaml:"device-serial,omitempty"`
	SoftwareVersions  []string `mapstructure:"software-versions" yaml:"software-versions,omitempty"`
	MeasurementUnits  string   `mapstructure:"measurement-units" yaml:"measurement-units,omitempty"`
}

// Flags that configure the run itself rather than the document.
var unboundFlags = map[string]bool{
	"config":      true,
	"save-config": true,
	"interactive": true,
	"key":         true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "INFO")
	v.SetDefault("log-format", "console")
	v.SetDefault("instance", 1)
	v.SetDefault("transfer-syntax", "little")
	v.SetDefault("annotation", true)
	v.SetDefault("measurement-units", doctype.DefaultMeasurementUnits)
}

// Load reads the configuration. Precedence is flags, then environment, then
// the --config file, then defaults. Override keys given with --key replace
// the file's list; they are read from the flag directly because tag numbers
// contain commas.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if unboundFlags[f.Name] || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(f.Name, f)
	})
	if bindErr != nil {
		return nil, fmt.Errorf("bind flags: %w", bindErr)
	}

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", f.Value.String(), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if fs.Changed("key") {
		keys, err := fs.GetStringArray("key")
		if err != nil {
			return nil, fmt.Errorf("read --key: %w", err)
		}
		cfg.Keys = keys
	}
	return cfg, nil
}

// Validate checks the configuration for the chosen document class.
func (c *Config) Validate() error {
	if !doctype.IsValid(string(c.Class)) {
		return fmt.Errorf("unknown document class %q", c.Class)
	}
	if c.Input == "" {
		return fmt.Errorf("input file is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output file is required")
	}
	if c.StudyFrom != "" && c.SeriesFrom != "" {
		return fmt.Errorf("--study-from and --series-from are mutually exclusive")
	}
	if c.InstanceInc && c.StudyFrom == "" && c.SeriesFrom == "" {
		return fmt.Errorf("--instance-inc requires --study-from or --series-from")
	}
	if c.Instance < 1 {
		return fmt.Errorf("--instance must be >= 1, got %d", c.Instance)
	}
	if _, err := record.ParseTransferSyntax(c.TransferSyntax); err != nil {
		return err
	}
	switch c.PatientSex {
	case "", "M", "F", "O":
	default:
		return fmt.Errorf("--patient-sex must be M, F or O, got %q", c.PatientSex)
	}
	if c.UIDRoot != "" && !util.IsValidUID(strings.TrimSuffix(c.UIDRoot, ".")) {
		return fmt.Errorf("--uid-root %q is not a dotted numeric UID", c.UIDRoot)
	}
	for _, uid := range []struct{ flag, value string }{
		{"--study-uid", c.StudyUID},
		{"--series-uid", c.SeriesUID},
	} {
		if uid.value != "" && !util.IsValidUID(uid.value) {
			return fmt.Errorf("%s %q is not a valid UID", uid.flag, uid.value)
		}
	}
	if c.Class == doctype.STL {
		if _, ok := doctype.MeasurementUnitMeaning(c.MeasurementUnits); !ok {
			return fmt.Errorf("unsupported --measurement-units %q", c.MeasurementUnits)
		}
	}
	return nil
}

// Save writes the document settings of c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
