// Package seed populates an empty store with the demo account and the
// starter destination catalog.
package seed

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/destination"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/domain/user"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

// DemoEmail is the seeded demo account's email.
const DemoEmail = "demo@example.com"

// DemoPassword is the seeded demo account's password.
const DemoPassword = "password123"

// Run seeds the demo user and the starter catalog into the store. Each
// collection is seeded only when empty, so existing data is never touched.
func Run(ctx context.Context, store storage.Store, log *logger.Logger) error {
	if log == nil {
		log = logger.NewDefault("seed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var seededUsers, seededDestinations bool
	err = store.Update(ctx, func(doc *storage.Document) error {
		now := time.Now().UTC()

		if len(doc.Users) == 0 {
			doc.Users = []user.User{{
				ID:        "1",
				Name:      "User Demo",
				Email:     DemoEmail,
				Password:  string(hash),
				Phone:     "+1234567890",
				BirthDate: "1990-01-01",
				Gender:    "other",
				CreatedAt: now,
			}}
			seededUsers = true
		}

		if len(doc.Destinations) == 0 {
			doc.Destinations = starterCatalog(now)
			seededDestinations = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if seededUsers || seededDestinations {
		log.WithField("users", seededUsers).
			WithField("destinations", seededDestinations).
			Info("seeded demo data")
	}
	return nil
}

func starterCatalog(now time.Time) []destination.Destination {
	entries := []struct {
		id, name, location, address, description, image string
		rating                                          float64
	}{
		{"dest-1", "Machu Picchu", "Cusco, Peru", "Km 112 Ferrocarril Cusco-Aguas Calientes", "Maravilla del mundo antiguo. La ciudadela inca mejor preservada.", "https://images.unsplash.com/photo-1587595431973-160ef0d6470a?w=400&h=300&fit=crop", 4.9},
		{"dest-2", "Playa Tamarindo", "Guanacaste, Costa Rica", "Santa Cruz, Guanacaste Province", "Playa paradisíaca con excelente clima y olas para surfear.", "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop", 4.7},
		{"dest-3", "Galápagos Islands", "Ecuador", "Archipielago de Galápagos", "Destino único con fauna y flora endémica. Avistamiento de tortugas gigantes.", "https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?w=400&h=300&fit=crop", 4.8},
		{"dest-4", "Atacama Desert", "Chile", "Región de Antofagasta", "El desierto más árido del mundo con paisajes lunares espectaculares.", "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop", 4.6},
		{"dest-5", "Pyongyang Tour", "Pyongyang, North Korea", "Pyongyang", "Visita guiada por lugares emblemáticos de Corea del Norte (requiere permisos especiales).", "https://images.unsplash.com/photo-1520763185298-1b434c919eba?w=400&h=300&fit=crop", 3.8},
		{"dest-6", "Castillo de Bran", "Bran, Romania", "Strada General Traian Moșoiu", "El famoso \"Castillo de Drácula\" y paisajes de Transilvania.", "https://images.unsplash.com/photo-1587595431973-160ef0d6470a?w=400&h=300&fit=crop", 4.3},
		{"dest-7", "Persepolis", "Shiraz, Iran", "Marvdasht", "Ruinas arqueológicas de la antigua Persia, sitio patrimonio de la humanidad.", "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=400&h=300&fit=crop", 4.5},
		{"dest-8", "Samarkand", "Samarkand, Uzbekistan", "Región de Samarcanda", "Ruta de la seda: arquitectura islámica, mausoleos y mercados tradicionales.", "https://images.unsplash.com/photo-1571632635475-241cebb221cb?w=400&h=300&fit=crop", 4.6},
		{"dest-9", "Great Wall (Badaling)", "Beijing, China", "Badaling", "Tramo emblemático de la Gran Muralla aproximadamente a 1 hora de Beijing.", "https://images.unsplash.com/photo-1508804185872-d7badad00f7d?w=400&h=300&fit=crop", 4.7},
		{"dest-10", "Tokyo - Shibuya", "Tokyo, Japan", "Shibuya Crossing", "Cultura pop, gastronomía y vida nocturna en el corazón de Tokio.", "https://images.unsplash.com/photo-1540959375944-7049f642e9cc?w=400&h=300&fit=crop", 4.8},
		{"dest-11", "Seoul Highlights", "Seoul, South Korea", "Jongno-gu", "Palacios históricos, mercados y tecnología de vanguardia en Corea del Sur.", "https://images.unsplash.com/photo-1540959375944-7049f642e9cc?w=400&h=300&fit=crop", 4.7},
		{"dest-12", "Berlin City Tour", "Berlin, Germany", "Mitte", "Historia contemporánea, museos y vida urbana en la capital alemana.", "https://images.unsplash.com/photo-1489749798305-4fea3ba63d60?w=400&h=300&fit=crop", 4.6},
		{"dest-13", "Oaxaca de Juárez", "Oaxaca, Mexico", "Centro Histórico, Oaxaca de Juárez", "Cultura, gastronomía y artesanías en el corazón de Oaxaca.", "https://images.unsplash.com/photo-1518156677180-95a2893f3e9f?w=400&h=300&fit=crop", 4.9},
		{"dest-14", "Huatulco Beaches", "Huatulco, Mexico", "Bahías de Huatulco", "Playas vírgenes y bahías para descanso y deportes acuáticos.", "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop", 4.7},
		{"dest-15", "Campeche Colonial", "Campeche, Mexico", "Centro Histórico de Campeche", "Ciudad fortificada con arquitectura barroca y vistas al Golfo.", "https://images.unsplash.com/photo-1518156677180-95a2893f3e9f?w=400&h=300&fit=crop", 4.6},
		{"dest-16", "Chichén Itzá", "Yucatán, Mexico", "Cuzamá - Chichén Itzá", "Una de las nuevas maravillas del mundo, sitio arqueológico maya.", "https://images.unsplash.com/photo-1487730116645-74489c95b41b?w=400&h=300&fit=crop", 4.9},
		{"dest-17", "Cabo San Lucas", "Baja California, Mexico", "Cabo San Lucas", "Playas, avistamiento de ballenas y vida nocturna en Baja California.", "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop", 4.5},
	}

	catalog := make([]destination.Destination, 0, len(entries))
	for _, e := range entries {
		catalog = append(catalog, destination.Destination{
			ID:          e.id,
			Name:        e.name,
			Location:    e.location,
			Address:     e.address,
			Description: e.description,
			Image:       e.image,
			Rating:      e.rating,
			CreatedAt:   now,
		})
	}
	return catalog
}
