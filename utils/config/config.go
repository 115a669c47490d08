package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// IniciarConfiguracion lee el archivo JSON y lo vuelca en config (un puntero a la estructura del módulo).
// Si el archivo no existe o no se puede decodificar, loguea y hace panic: sin configuración no arranca nada.
//
// Ejemplo:
//
//	c := config.IniciarConfiguracion("./configs/config.json", &Config{})
//	cfg := c.(*Config)
func IniciarConfiguracion(filePath string, config interface{}) interface{} {
	if err := CargarConfiguracion(filePath, config); err != nil {
		slog.Error("Error al cargar el archivo de configuración",
			slog.Attr{Key: "filePath", Value: slog.StringValue(filePath)},
			slog.Attr{Key: "error", Value: slog.StringValue(err.Error())},
		)
		panic(err)
	}

	return config
}

// CargarConfiguracion hace lo mismo que IniciarConfiguracion pero devuelve el error.
func CargarConfiguracion(filePath string, config interface{}) error {
	configFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error al abrir el archivo de configuración: %w", err)
	}
	defer func() {
		_ = configFile.Close()
	}()

	jsonParser := json.NewDecoder(configFile)
	if err = jsonParser.Decode(config); err != nil {
		return fmt.Errorf("error al decodificar el archivo de configuración %s: %w", filePath, err)
	}

	return nil
}
