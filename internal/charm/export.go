// ABOUTME: Export and import for the Charm KV backend.
package charm

import "github.com/harperreed/dose/internal/storage"

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	return storage.CollectData(c)
}

// ImportData imports data from an export file.
func (c *Client) ImportData(data *storage.ExportData) error {
	return storage.ImportInto(c, data)
}
