package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// English keys double as the English text.
var indonesian = [][2]string{
	{"PREDICTION RESULT", "HASIL PREDIKSI"},
	{"PREDICTED PRICE (REGRESSION)", "PREDIKSI HARGA (REGRESSION)"},
	{"PRICE TIER (CLASSIFICATION)", "KATEGORI HARGA (CLASSIFICATION)"},
	{"INPUT DATA:", "DATA INPUT:"},
	{"INTERPRETATION:", "INTERPRETASI:"},
	{"NOTES:", "CATATAN:"},
	{"%s is outside the usual range %s-%s.", "%s di luar rentang umum %s-%s."},
	{"Area (m²)", "Luas Area (m²)"},
	{"Bedrooms", "Jumlah Kamar Tidur"},
	{"Bathrooms", "Jumlah Kamar Mandi"},
	{"Building age (years)", "Umur Bangunan (tahun)"},
	{"Location score (1-10)", "Skor Lokasi (1-10)"},
	{"Garages", "Jumlah Garasi"},
	{"%s m²", "%s m²"},
	{"%s years", "%s tahun"},
	{"This house falls in the low price tier.", "Rumah ini termasuk kategori harga rendah."},
	{"A fit for buyers on a limited budget.", "Cocok untuk pembeli dengan budget terbatas."},
	{"This house falls in the medium price tier.", "Rumah ini termasuk kategori harga menengah."},
	{"Ideal for small to mid-sized families.", "Ideal untuk keluarga kecil hingga menengah."},
	{"This house falls in the high price tier.", "Rumah ini termasuk kategori harga tinggi."},
	{"A premium property with full facilities.", "Properti premium dengan fasilitas lengkap."},
	{"READY TO PREDICT", "APLIKASI SIAP DIGUNAKAN!"},
	{"Enter the house data in the form, then press", "Silakan masukkan data rumah di panel kiri,"},
	{"\"PREDICT PRICE\" to see the result.", "lalu klik tombol \"PREDIKSI HARGA\" untuk melihat hasil prediksi."},
	{"Models in use:", "Model yang digunakan:"},
	{"Price regressor", "Regressor harga"},
	{"Tier classifier", "Classifier kategori"},
	{"MODELS NOT AVAILABLE", "MODELS BELUM TERSEDIA"},
	{"TO GET STARTED:", "LANGKAH UNTUK MEMULAI:"},
	{"Export the trained models as JSON into %s", "Ekspor model yang sudah dilatih sebagai JSON ke %s"},
	{"Model directory not found: %s", "Folder model tidak ditemukan: %s"},
	{"File not found: %s", "File tidak ditemukan: %s"},
	{"Cannot load %s: %v", "Gagal memuat %s: %v"},
	{"Restart the application.", "Tutup aplikasi ini dan jalankan lagi."},
	{"INPUT RESET", "INPUT DIRESET"},
	{"Enter new house data and press \"PREDICT PRICE\".", "Silakan masukkan data rumah baru dan klik tombol \"PREDIKSI HARGA\"."},
	{"Models loaded, ready to predict", "Models loaded, siap prediksi"},
	{"Models not found, export the models first", "Models tidak ditemukan, ekspor models terlebih dahulu"},
	{"Prediction OK, price: %s", "Prediksi berhasil! Harga: %s"},
	{"Input reset", "Input direset"},
	{"Models are not available yet. Export the models first.", "Models belum tersedia! Silakan ekspor models terlebih dahulu."},
	{"Please enter valid numeric values (%s).", "Mohon masukkan nilai numerik yang valid (%s)."},
	{"Prediction failed: %v", "Terjadi kesalahan saat prediksi: %v"},
	{"PREDICT PRICE", "PREDIKSI HARGA"},
	{"RESET", "RESET"},
	{"House Price Predictor", "House Price Predictor"},
	{"House data", "Input Data Rumah"},
	{"Prediction result", "Hasil Prediksi"},
}

func newCatalog() (catalog.Catalog, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, pair := range indonesian {
		key, text := pair[0], pair[1]
		if err := builder.SetString(language.English, key, key); err != nil {
			return nil, err
		}
		if err := builder.SetString(language.Indonesian, key, text); err != nil {
			return nil, err
		}
	}
	return builder, nil
}
