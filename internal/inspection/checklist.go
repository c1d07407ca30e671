// server/internal/inspection/checklist.go
package inspection

import "reeutil-tradein-api-server/internal/models"

// checklistTemplates names the physical tests the admin works through per
// device category. Labels are what the console renders and what ends up in the
// final notes.
var checklistTemplates = map[string][]models.ChecklistEntry{
	"phone": {
		{Key: "camera", Label: "Cámaras frontal y trasera"},
		{Key: "mic_speaker", Label: "Micrófono y altavoz"},
		{Key: "charge_port", Label: "Puerto de carga"},
		{Key: "wifi_bt", Label: "Wi-Fi y Bluetooth"},
		{Key: "touch", Label: "Pantalla táctil"},
		{Key: "buttons", Label: "Botones físicos"},
	},
	"tablet": {
		{Key: "camera", Label: "Cámaras"},
		{Key: "mic_speaker", Label: "Micrófono y altavoz"},
		{Key: "charge_port", Label: "Puerto de carga"},
		{Key: "wifi_bt", Label: "Wi-Fi y Bluetooth"},
		{Key: "touch", Label: "Pantalla táctil"},
	},
	"laptop": {
		{Key: "keyboard", Label: "Teclado y touchpad"},
		{Key: "display", Label: "Pantalla"},
		{Key: "battery", Label: "Batería y carga"},
		{Key: "ports", Label: "Puertos USB y video"},
		{Key: "wifi", Label: "Wi-Fi"},
	},
	"tv": {
		{Key: "power", Label: "Encendido"},
		{Key: "panel", Label: "Panel sin líneas ni manchas"},
		{Key: "hdmi", Label: "Puertos HDMI"},
		{Key: "remote", Label: "Control remoto"},
	},
	"washing_machine": {
		{Key: "wash_cycle", Label: "Ciclo de lavado completo"},
		{Key: "spin", Label: "Centrifugado"},
		{Key: "leaks", Label: "Sin fugas de agua"},
		{Key: "door", Label: "Puerta o tapa"},
	},
	"console": {
		{Key: "reader", Label: "Lector de discos"},
		{Key: "video", Label: "Salida de video"},
		{Key: "controllers", Label: "Mandos"},
		{Key: "ports", Label: "Puertos"},
	},
	"desktop": {
		{Key: "boot", Label: "Arranque del sistema"},
		{Key: "video", Label: "Salida de video"},
		{Key: "ports", Label: "Puertos"},
		{Key: "fans", Label: "Ventiladores"},
	},
}

var defaultChecklist = []models.ChecklistEntry{
	{Key: "power", Label: "Encendido"},
	{Key: "physical", Label: "Estado físico general"},
	{Key: "functions", Label: "Funciones principales"},
}

// ChecklistTemplate returns a fresh (all-pending) checklist for the device
// category.
func ChecklistTemplate(deviceType string) []models.ChecklistEntry {
	src, ok := checklistTemplates[deviceType]
	if !ok {
		src = defaultChecklist
	}
	out := make([]models.ChecklistEntry, len(src))
	copy(out, src)
	return out
}
