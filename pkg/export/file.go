package export

import (
	"fmt"
	"io"
	"os"

	"github.com/shouni/go-resort-importer/pkg/types"
)

// WriteFiles は CSV と SQL をそれぞれのパスに書き出します。既存のファイルは上書きされます。
func WriteFiles(csvPath, sqlPath string, rows []types.ResortRecord) error {
	if err := writeFile(csvPath, rows, WriteCSV); err != nil {
		return err
	}
	return writeFile(sqlPath, rows, WriteSQL)
}

func writeFile(path string, rows []types.ResortRecord, write func(io.Writer, []types.ResortRecord) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("出力ファイルの作成に失敗しました (%s): %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("出力ファイルのクローズに失敗しました (%s): %w", path, cerr)
		}
	}()

	if err := write(f, rows); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
