package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys double as the English text.
const (
	MsgUnsupportedLanguage = "We currently do not support the '%s' language, or that is not a valid code"

	MsgHeaderLanguages = "You're trying to upload translations with language codes that are not specified in the standard ISO 639-1, please check the language headers in your file"
	MsgCurrencyCodes   = "You're trying to upload countries with currency codes that are not specified in the standard ISO 4217, please check the currency code's column in your file"

	MsgRegionCountryMismatch = "You downloaded the file intending to upload regions for a specific country, now, you're uploading either more than one country code, or a code different than the one you wanted to upload at first"
	MsgCityCountryMismatch   = "You downloaded the file intending to upload cities for a specific country, now, you're uploading either more than one country code, or a code different than the one you wanted to upload at first"

	MsgRegionCountryRequired = "You need to specify a country you want to upload the regions for"
	MsgCityCountryRequired   = "You need to specify a country you want to upload the cities for"

	MsgRegionExportCountryRequired = "You need to specify a country you want to download the regions for"
	MsgCityExportCountryRequired   = "You need to specify a country you want to download the cities for"

	MsgCountryNotFound = "The country with code %s does not exist"
	MsgRegionNotFound  = "The region with code %s does not exist"

	MsgEmptyFile         = "The file is empty, the first row must hold the column headers"
	MsgShortRow          = "Row %d has %d columns but at least %d are required"
	MsgCodeTooLong       = "Row %d: the code %q is longer than %d characters"
	MsgCodeTooShort      = "Row %d: the code %q is shorter than %d characters"
	MsgLocalCodeTooLong  = "Row %d: the local code %q is longer than %d characters"
	MsgNameTooLong       = "Row %d: the %s name is longer than %d characters"
	MsgUnreadableFile    = "The file could not be read, upload a CSV or XLSX spreadsheet"
	MsgFileRequired      = "You need to choose a file to upload"
	MsgUnsupportedFormat = "The format %q is not supported, use xlsx or csv"

	MsgCurrencyColombianPeso = "Colombian Peso"
	MsgCurrencyEuro          = "Euro"
	MsgCurrencyDollar        = "Dollar"
)

var spanish = map[string]string{
	MsgUnsupportedLanguage: "Actualmente no soportamos el idioma '%s', o no es un código válido",

	MsgHeaderLanguages: "Estás intentando subir traducciones con códigos de idioma que no están especificados en el estándar ISO 639-1, por favor revisa los encabezados de idioma de tu archivo",
	MsgCurrencyCodes:   "Estás intentando subir países con códigos de moneda que no están especificados en el estándar ISO 4217, por favor revisa la columna de códigos de moneda de tu archivo",

	MsgRegionCountryMismatch: "Descargaste el archivo para subir regiones de un país específico, ahora estás subiendo más de un código de país, o un código distinto al que querías subir en un principio",
	MsgCityCountryMismatch:   "Descargaste el archivo para subir ciudades de un país específico, ahora estás subiendo más de un código de país, o un código distinto al que querías subir en un principio",

	MsgRegionCountryRequired: "Debes especificar el país para el que quieres subir las regiones",
	MsgCityCountryRequired:   "Debes especificar el país para el que quieres subir las ciudades",

	MsgRegionExportCountryRequired: "Debes especificar el país para el que quieres descargar las regiones",
	MsgCityExportCountryRequired:   "Debes especificar el país para el que quieres descargar las ciudades",

	MsgCountryNotFound: "El país con código %s no existe",
	MsgRegionNotFound:  "La región con código %s no existe",

	MsgEmptyFile:         "El archivo está vacío, la primera fila debe contener los encabezados de las columnas",
	MsgShortRow:          "La fila %d tiene %d columnas pero se requieren al menos %d",
	MsgCodeTooLong:       "Fila %d: el código %q tiene más de %d caracteres",
	MsgCodeTooShort:      "Fila %d: el código %q tiene menos de %d caracteres",
	MsgLocalCodeTooLong:  "Fila %d: el código local %q tiene más de %d caracteres",
	MsgNameTooLong:       "Fila %d: el nombre en %s tiene más de %d caracteres",
	MsgUnreadableFile:    "No se pudo leer el archivo, sube una hoja de cálculo CSV o XLSX",
	MsgFileRequired:      "Debes elegir un archivo para subir",
	MsgUnsupportedFormat: "El formato %q no está soportado, usa xlsx o csv",

	MsgCurrencyColombianPeso: "Peso colombiano",
	MsgCurrencyEuro:          "Euro",
	MsgCurrencyDollar:        "Dólar",
}

func init() {
	for key, msg := range spanish {
		if err := message.SetString(language.Spanish, key, msg); err != nil {
			panic(err)
		}
	}
}
