package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// RunConfig is the configuration section of the run summary.
type RunConfig struct {
	Engine            string  `yaml:"engine"`
	Model             string  `yaml:"model"`
	Diameter          float64 `yaml:"diameter"`
	FlowThreshold     float64 `yaml:"flowthreshold"`
	CellprobThreshold float64 `yaml:"cellprobthreshold"`
	InputDir          string  `yaml:"inputdir"`
	OutputDir         string  `yaml:"outputdir"`
	Timestamp         string  `yaml:"timestamp"`
}

// RunSummary is the complete YAML report for a batch run.
type RunSummary struct {
	Config      RunConfig `yaml:"config"`
	TotalImages int       `yaml:"totalimages"`
	TotalCells  int       `yaml:"totalcells"`
	Failures    int       `yaml:"failures"`
	Results     []Record  `yaml:"results"`
}

// WriteParquet writes the batch records as a Parquet file.
func WriteParquet(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Record](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet records: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadParquet loads batch records back from a Parquet file.
func ReadParquet(path string) ([]Record, error) {
	rows, err := parquet.ReadFile[Record](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// WriteSummaryYAML writes the human-readable run report.
func WriteSummaryYAML(path string, config RunConfig, records []Record) error {
	if config.Timestamp == "" {
		config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	summary := RunSummary{
		Config:      config,
		TotalImages: len(records),
		Results:     records,
	}
	for _, record := range records {
		if record.Error != "" {
			summary.Failures++
			continue
		}
		summary.TotalCells += int(record.CellCount)
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
