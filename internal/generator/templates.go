package generator

// Kind identifies the template pool a generated row was drawn from.
type Kind string

const (
	KindSalary       Kind = "nomina"
	KindBonus        Kind = "bizum"
	KindRent         Kind = "alquiler"
	KindSupermarket  Kind = "supermercado"
	KindRestaurant   Kind = "restaurante"
	KindLeisure      Kind = "ocio"
	KindTransport    Kind = "transporte"
	KindUtility      Kind = "suministros"
	KindSubscription Kind = "suscripcion"
	KindHealth       Kind = "salud"
	KindOneOff       Kind = "puntual"
)

// IsCredit reports whether rows of this kind are money in.
func (k Kind) IsCredit() bool {
	return k == KindSalary || k == KindBonus
}

// Template is a merchant description pattern with the amount range it is drawn from.
// Patterns use {n:WIDTHd} (zero-padded when WIDTH starts with 0), {mes} and {ciudad}.
type Template struct {
	Pattern string
	Kind    Kind
	Min     float64
	Max     float64
}

var supermarkets = []Template{
	{"TPV MERCADONA {n:03d}", KindSupermarket, 40, 130},
	{"COMPRA CARREFOUR {n:03d}", KindSupermarket, 30, 110},
	{"LIDL ES {n:04d}", KindSupermarket, 20, 80},
	{"ALDI SUPERMERCADOS", KindSupermarket, 20, 75},
	{"CONSUM COOP {n:03d}", KindSupermarket, 25, 90},
	{"AMAZON FRESH ES", KindSupermarket, 30, 100},
}

var restaurants = []Template{
	{"TPV BAR RESTAURANTE {n:04d}", KindRestaurant, 8, 45},
	{"GLOVO ES {n:06d}", KindRestaurant, 12, 40},
	{"UBER EATS *ES {n:5d}", KindRestaurant, 12, 40},
	{"JUST EAT SPAIN", KindRestaurant, 10, 35},
	{"MCDONALDS {ciudad}", KindRestaurant, 6, 20},
	{"STARBUCKS {n:04d} ES", KindRestaurant, 4, 12},
	{"CAFETERIA {n:04d}", KindRestaurant, 3, 15},
}

var leisure = []Template{
	{"CINES ODEON {n:03d}", KindLeisure, 8, 25},
	{"STEAM PURCHASE", KindLeisure, 5, 60},
	{"TICKETMASTER ES", KindLeisure, 20, 120},
	{"FNAC SPAIN {n:04d}", KindLeisure, 15, 80},
	{"PAYPAL *GAMING {n:8d}", KindLeisure, 5, 50},
	{"AMAZON MARKETPLACE ES", KindLeisure, 10, 150},
}

var transport = []Template{
	{"REPSOL {n:04d}", KindTransport, 40, 90},
	{"BP ESTACION {n:04d}", KindTransport, 40, 85},
	{"RENFE INTERNET {n:8d}", KindTransport, 15, 80},
	{"EMT MADRID RECARGA", KindTransport, 10, 20},
	{"CABIFY VIAJE {n:8d}", KindTransport, 8, 35},
	{"PARKING {n:04d} ES", KindTransport, 3, 25},
	{"AUTOPISTA PEAJE {n:04d}", KindTransport, 3, 20},
}

var utilities = []Template{
	{"RECIBO ENDESA {mes}", KindUtility, 55, 130},
	{"RECIBO IBERDROLA {mes}", KindUtility, 50, 120},
	{"RECIBO NATURGY GAS {mes}", KindUtility, 35, 90},
	{"TELEFONICA MOVISTAR {mes}", KindUtility, 30, 70},
	{"ORANGE SPAIN {mes}", KindUtility, 20, 60},
	{"RECIBO AGUA CANAL {mes}", KindUtility, 20, 60},
}

// Subscriptions renew at a fixed price, so Min == Max.
var subscriptions = []Template{
	{"NETFLIX.COM {n:8d}", KindSubscription, 12.99, 12.99},
	{"SPOTIFY AB {n:8d}", KindSubscription, 9.99, 9.99},
	{"AMAZON PRIME ES", KindSubscription, 4.99, 4.99},
	{"HBO MAX ES {n:6d}", KindSubscription, 8.99, 8.99},
	{"DISNEY PLUS ES", KindSubscription, 8.99, 8.99},
	{"ADOBE INC {n:8d}", KindSubscription, 24.19, 24.19},
	{"GOOGLE ONE STORAGE", KindSubscription, 2.99, 2.99},
	{"MICROSOFT 365 {n:8d}", KindSubscription, 9.99, 9.99},
}

var health = []Template{
	{"FARMACIA {n:04d}", KindHealth, 8, 60},
	{"CLINICA DENTAL {n:04d}", KindHealth, 50, 300},
	{"SANITAS SEGUROS {mes}", KindHealth, 45, 75},
	{"GIMNASIO {n:04d}", KindHealth, 25, 55},
}

var oneOffs = []Template{
	{"AMAZON MARKETPLACE ES", KindOneOff, 150, 600},
	{"EL CORTE INGLES {n:04d}", KindOneOff, 150, 600},
	{"IKEA SPAIN {n:04d}", KindOneOff, 150, 600},
	{"VUELING AIRLINES {n:8d}", KindOneOff, 150, 600},
	{"BOOKING.COM {n:8d}", KindOneOff, 150, 600},
	{"MEDIAMARKT {n:04d}", KindOneOff, 150, 600},
}

var cities = []string{"MADRID", "BCN", "VLNC", "SEVLL", "BILBAO"}

const (
	salaryMean   = 1800.0
	salaryStdDev = 30.0
	rentMean     = 750.0
	rentStdDev   = 10.0

	bonusProbability  = 0.25
	bonusMin          = 20.0
	bonusMax          = 300.0
	oneOffProbability = 0.20
)
