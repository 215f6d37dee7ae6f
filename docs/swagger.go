package docs

// @title           Parking Management API
// @version         1.0
// @description     Parking lot management service. Tracks registered vehicles, parking sessions with hour-based billing, captured payments and live lot occupancy. Provides JWT-based authentication for operators and admins.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
